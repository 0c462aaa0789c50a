package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImages(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"null", "null", []string{}},
		{"malformed", `["/images/a.jpg"`, []string{}},
		{"wrong shape", `{"url":"/images/a.jpg"}`, []string{}},
		{"ordered", `["/images/b.jpg","/images/a.jpg"]`, []string{"/images/b.jpg", "/images/a.jpg"}},
		{"blank entries dropped", `["", "/images/a.jpg"]`, []string{"/images/a.jpg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseImages(tt.raw)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
