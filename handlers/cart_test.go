package handlers

import (
	"net/http"
	"testing"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/cart"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartJSON struct {
	Locale        string          `json:"locale"`
	Items         []cart.LineItem `json:"items"`
	Count         int             `json:"count"`
	Currency      string          `json:"currency"`
	TotalEurCents int64           `json:"totalEurCents"`
	TotalIlsCents int64           `json:"totalIlsCents"`
	DisplayTotal  string          `json:"displayTotal"`
}

func TestCartFlow(t *testing.T) {
	f := newFixture(t)
	cl := f.client(t)

	w := cl.do(http.MethodGet, "/api/cart.get", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, cl.cookies, "a session cookie is handed out on first contact")
	empty := decode[cartJSON](t, w)
	assert.Equal(t, "fr", empty.Locale)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 0, empty.Count)

	w = cl.do(http.MethodPost, "/api/cart.addItem", map[string]any{"productId": 1, "quantity": 2}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = cl.do(http.MethodPost, "/api/cart.addItem", map[string]any{"productId": 2}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[cartJSON](t, w)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Collier Étoile de David Or", got.Items[0].ProductName)
	assert.Equal(t, "/images/a.jpg", got.Items[0].ProductImage)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, int64(11000), got.TotalEurCents)
	assert.Equal(t, int64(43700), got.TotalIlsCents)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "110,00\u00a0€", got.DisplayTotal)

	w = cl.do(http.MethodPost, "/api/cart.addItem", map[string]any{"productId": 1, "quantity": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[cartJSON](t, w)
	require.Len(t, got.Items, 2, "adding the same product merges lines")
	assert.Equal(t, 3, got.Items[0].Quantity)

	w = cl.do(http.MethodPost, "/api/cart.setQuantity", map[string]any{"productId": 1, "quantity": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[cartJSON](t, w)
	assert.Equal(t, 2, got.Count)

	w = cl.do(http.MethodPost, "/api/cart.setQuantity", map[string]any{"productId": 2, "quantity": 0}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[cartJSON](t, w)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1), got.Items[0].ProductID)

	w = cl.do(http.MethodPost, "/api/cart.removeItem", map[string]any{"productId": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[cartJSON](t, w)
	assert.Empty(t, got.Items)
	assert.Equal(t, int64(0), got.TotalEurCents)
}

func TestCartPersistsUnderSession(t *testing.T) {
	f := newFixture(t)
	alice := f.client(t)
	bob := f.client(t)

	w := alice.do(http.MethodPost, "/api/cart.addItem", map[string]any{"productId": 1, "quantity": 2}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = alice.do(http.MethodGet, "/api/cart.get", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[cartJSON](t, w).Count)

	w = bob.do(http.MethodGet, "/api/cart.get", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[cartJSON](t, w).Count)
}

func TestCartClear(t *testing.T) {
	f := newFixture(t)
	cl := f.client(t)

	cl.do(http.MethodPost, "/api/cart.addItem", map[string]any{"productId": 1}, nil)
	cl.do(http.MethodPost, "/api/cart.addItem", map[string]any{"productId": 2}, nil)

	w := cl.do(http.MethodPost, "/api/cart.clear", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[cartJSON](t, w)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.Count)
}

func TestAddToCartRejects(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{name: "UnknownProduct", body: map[string]any{"productId": 99}, code: http.StatusNotFound},
		{name: "ZeroQuantity", body: map[string]any{"productId": 1, "quantity": 0}, code: http.StatusBadRequest},
		{name: "TooMany", body: map[string]any{"productId": 1, "quantity": 100}, code: http.StatusBadRequest},
		{name: "MissingProduct", body: map[string]any{"quantity": 1}, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cl := f.client(t)
			w := cl.do(http.MethodPost, "/api/cart.addItem", tt.body, nil)
			assert.Equal(t, tt.code, w.Code)

			w = cl.do(http.MethodGet, "/api/cart.get", nil, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, 0, decode[cartJSON](t, w).Count)
		})
	}
}

func TestAddToCartInactiveProduct(t *testing.T) {
	f := newFixture(t)
	f.catalog.products[1].IsActive = false

	w := f.client(t).do(http.MethodPost, "/api/cart.addItem", map[string]any{"productId": 2}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetLocale(t *testing.T) {
	f := newFixture(t)
	cl := f.client(t)

	w := cl.do(http.MethodPost, "/api/session.setLocale", map[string]any{"locale": "he"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"locale":"he","rtl":true}`, w.Body.String())

	// the name is snapshotted in the session locale, prices switch to shekels
	w = cl.do(http.MethodPost, "/api/cart.addItem", map[string]any{"productId": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[cartJSON](t, w)
	assert.Equal(t, "he", got.Locale)
	assert.Equal(t, "ILS", got.Currency)
	assert.Equal(t, "₪199.00", got.DisplayTotal)
	require.Len(t, got.Items, 1)
	assert.Equal(t, f.catalog.products[0].Translations[i18n.Hebrew].Name, got.Items[0].ProductName)

	w = cl.do(http.MethodPost, "/api/session.setLocale", map[string]any{"locale": "de"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
