package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/auth"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/cart"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/categories"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/orders"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/products"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/reviews"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []products.Product {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cat := int64(3)
	return []products.Product{
		{
			ID: 1, Slug: "star-of-david-gold-necklace", SKU: "SOD-001",
			Translations: map[i18n.Locale]products.Translation{
				i18n.French:  {Name: "Collier Étoile de David Or"},
				i18n.English: {Name: "Gold Star of David Necklace"},
				i18n.Hebrew:  {Name: "שרשרת מגן דוד זהב"},
			},
			PriceEurCents: 5000, PriceIlsCents: 19900, CategoryID: &cat,
			Images: []string{"/images/a.jpg"}, Stock: 10, IsFeatured: true, IsActive: true,
			CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: 2, Slug: "chai-diamond-pendant", SKU: "CHAI-001",
			Translations: map[i18n.Locale]products.Translation{
				i18n.French:  {Name: "Pendentif Chaï"},
				i18n.English: {Name: "Chai Pendant"},
			},
			PriceEurCents: 1000, PriceIlsCents: 3900,
			Images: []string{}, Stock: 5, IsActive: true,
			CreatedAt: created, UpdatedAt: created,
		},
	}
}

type fakeCatalog struct {
	mu       sync.Mutex
	products []products.Product
	err      error
	lastList products.ListOptions
	lastPage products.PageOptions
	lastFeat int
}

func (f *fakeCatalog) ListProducts(_ context.Context, opts products.ListOptions) ([]products.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) ListProductsPaginated(_ context.Context, opts products.PageOptions) (products.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPage = opts
	if f.err != nil {
		return products.Page{}, f.err
	}
	page := products.Page{
		Products:   []products.Product{},
		Total:      len(f.products),
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: products.TotalPages(len(f.products), opts.PageSize),
	}
	start := (opts.Page - 1) * opts.PageSize
	for i := start; i < len(f.products) && i < start+opts.PageSize; i++ {
		page.Products = append(page.Products, f.products[i])
	}
	return page, nil
}

func (f *fakeCatalog) GetProductBySlug(_ context.Context, slug string) (*products.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) GetProductByID(_ context.Context, id int64) (*products.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) GetFeatured(_ context.Context, limit int) ([]products.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFeat = limit
	if f.err != nil {
		return nil, f.err
	}
	var out []products.Product
	for _, p := range f.products {
		if p.IsFeatured && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCategories struct {
	list []categories.Category
}

func (f *fakeCategories) GetAllCategories(context.Context) ([]categories.Category, error) {
	return f.list, nil
}

func (f *fakeCategories) GetCategoryBySlug(_ context.Context, slug string) (*categories.Category, error) {
	for _, c := range f.list {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

type fakeReviews struct {
	created []reviews.NewReview
}

func (f *fakeReviews) GetProductReviews(_ context.Context, productID int64) ([]reviews.Review, error) {
	return []reviews.Review{{ID: 1, ProductID: productID, CustomerName: "Sarah", Rating: 5}}, nil
}

func (f *fakeReviews) CreateReview(_ context.Context, nr reviews.NewReview) (int64, error) {
	f.created = append(f.created, nr)
	return int64(len(f.created)), nil
}

type fakeOrders struct {
	placed []orders.NewOrder
	err    error
	stored map[string]*orders.Order
	number *string
}

func (f *fakeOrders) PlaceOrder(_ context.Context, no orders.NewOrder) (*orders.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.placed = append(f.placed, no)
	o := &orders.Order{
		ID:            int64(len(f.placed)),
		OrderNumber:   "BS-20240501-TESTTEST",
		Customer:      no.Customer,
		Shipping:      no.Shipping,
		Status:        orders.StatusPending,
		PaymentStatus: orders.PaymentPending,
		CreatedAt:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Totals:        orders.ComputeTotals(no.Lines, no.Currency),
	}
	if f.number != nil {
		o.OrderNumber = *f.number
	}
	for _, l := range no.Lines {
		o.Items = append(o.Items, orders.Item{ProductID: l.ProductID, ProductName: l.ProductName, Quantity: l.Quantity})
	}
	if f.stored == nil {
		f.stored = map[string]*orders.Order{}
	}
	f.stored[o.OrderNumber] = o
	return o, nil
}

func (f *fakeOrders) GetOrderByNumber(_ context.Context, orderNumber string) (*orders.Order, error) {
	return f.stored[orderNumber], nil
}

type producedMessage struct {
	topic      string
	key, value []byte
}

type fakeProducer struct {
	messages chan producedMessage
}

func (f *fakeProducer) ProduceMessage(topic string, key, value []byte) error {
	f.messages <- producedMessage{topic: topic, key: key, value: value}
	return nil
}

type fixture struct {
	catalog  *fakeCatalog
	reviews  *fakeReviews
	orders   *fakeOrders
	carts    *cart.MemoryStore
	producer *fakeProducer
	keys     *auth.Keys
	router   *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("GIN_MODE", gin.TestMode)

	keys, err := auth.NewKeys([]byte("test-order-token-secret"), time.Hour)
	require.NoError(t, err)

	f := &fixture{
		catalog:  &fakeCatalog{products: sampleProducts()},
		reviews:  &fakeReviews{},
		orders:   &fakeOrders{},
		carts:    cart.NewMemoryStore(),
		producer: &fakeProducer{messages: make(chan producedMessage, 4)},
		keys:     keys,
	}
	f.router = API("/api", Services{
		Catalog: f.catalog,
		Categories: &fakeCategories{list: []categories.Category{
			{ID: 1, Slug: "chai", Name: i18n.Text{i18n.French: "Chaï", i18n.English: "Chai", i18n.Hebrew: "חי"}},
		}},
		Reviews:  f.reviews,
		Orders:   f.orders,
		Carts:    f.carts,
		Sessions: sessions.NewCookieStore([]byte("test-session-key-0123456789abcdef")),
		Keys:     keys,
		Events:   f.producer,
	})
	return f
}

// client keeps the session cookie between requests like a browser would.
type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func (f *fixture) client(t *testing.T) *client {
	return &client{t: t, router: f.router}
}

func (cl *client) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	cl.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(cl.t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		cl.cookies = cs
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
