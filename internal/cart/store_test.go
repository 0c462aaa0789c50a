package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements the two commands RedisStore uses.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	v, ok := f.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func TestKey(t *testing.T) {
	assert.Equal(t, "barukh-sagit-storage:abc", Key("abc"))
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	store := NewRedisStore(rdb, time.Hour)

	st, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, NewState(), st)

	st.Locale = i18n.English
	st.Cart = append(st.Cart, LineItem{ProductRef: necklace, Quantity: 2})
	require.NoError(t, store.Save(ctx, "sid", st))
	assert.Equal(t, time.Hour, rdb.ttls["barukh-sagit-storage:sid"])

	loaded, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, st, loaded)
}

func TestPersistedRecordShape(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	store := NewRedisStore(rdb, time.Hour)

	st := NewState()
	st.Cart = []LineItem{{ProductRef: ProductRef{ProductID: 1, ProductSlug: "chai", ProductName: "Chai", ProductImage: "/c.jpg", PriceEurCents: 5000, PriceIlsCents: 19900}, Quantity: 2}}
	require.NoError(t, store.Save(ctx, "sid", st))

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(rdb.data["barukh-sagit-storage:sid"]), &record))
	assert.Equal(t, "fr", record["locale"])
	lines := record["cart"].([]any)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, float64(1), line["productId"])
	assert.Equal(t, "chai", line["productSlug"])
	assert.Equal(t, float64(19900), line["priceIlsCents"])
	assert.Equal(t, float64(2), line["quantity"])
}

func TestLoadDiscardsBadRecords(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	store := NewRedisStore(rdb, time.Hour)

	rdb.data[Key("garbage")] = "{not json"
	st, err := store.Load(ctx, "garbage")
	require.NoError(t, err)
	assert.Equal(t, NewState(), st)

	rdb.data[Key("odd")] = `{"locale":"de","cart":[{"productId":1,"quantity":0},{"productId":2,"quantity":3}]}`
	st, err = store.Load(ctx, "odd")
	require.NoError(t, err)
	assert.Equal(t, i18n.French, st.Locale)
	require.Len(t, st.Cart, 1)
	assert.Equal(t, int64(2), st.Cart[0].ProductID)
}
