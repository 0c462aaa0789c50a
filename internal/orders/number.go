package orders

import (
	"crypto/rand"
	"strconv"
	"time"
)

// no I, O, 1 or 0 so numbers can be read out over the phone
const orderNumberCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderNumber returns a reference of the form BS-20240131-7KQ2MZ4P.
func NewOrderNumber(now time.Time) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "BS-" + now.UTC().Format("20060102") + "-" + strconv.FormatInt(now.UnixNano(), 36)
	}
	for i := range b {
		b[i] = orderNumberCharset[int(b[i])%len(orderNumberCharset)]
	}
	return "BS-" + now.UTC().Format("20060102") + "-" + string(b)
}
