package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/auth"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/cart"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/categories"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/orders"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/products"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/reviews"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/middleware"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/ctxmanage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
)

// Catalog is the read side of the product store.
type Catalog interface {
	ListProducts(ctx context.Context, opts products.ListOptions) ([]products.Product, error)
	ListProductsPaginated(ctx context.Context, opts products.PageOptions) (products.Page, error)
	GetProductBySlug(ctx context.Context, slug string) (*products.Product, error)
	GetProductByID(ctx context.Context, id int64) (*products.Product, error)
	GetFeatured(ctx context.Context, limit int) ([]products.Product, error)
}

type Categories interface {
	GetAllCategories(ctx context.Context) ([]categories.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*categories.Category, error)
}

type Reviews interface {
	GetProductReviews(ctx context.Context, productID int64) ([]reviews.Review, error)
	CreateReview(ctx context.Context, nr reviews.NewReview) (int64, error)
}

type OrderRecorder interface {
	PlaceOrder(ctx context.Context, no orders.NewOrder) (*orders.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*orders.Order, error)
}

type EventProducer interface {
	ProduceMessage(topic string, key, value []byte) error
}

// Services are the collaborators of the HTTP handlers. Events may be nil, in which case
// no event is published.
type Services struct {
	Catalog    Catalog
	Categories Categories
	Reviews    Reviews
	Orders     OrderRecorder
	Carts      cart.Store
	Sessions   sessions.Store
	Keys       *auth.Keys
	Events     EventProducer
}

type Handler struct {
	Services
}

func NewHandler(s Services) *Handler {
	return &Handler{Services: s}
}

func API(endpointPrefix string, s Services) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode || mode == gin.TestMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	m, err := middleware.NewMid(s.Keys)
	if err != nil {
		panic(err)
	}

	h := NewHandler(s)
	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)

	v1 := r.Group(endpointPrefix)
	{
		v1.GET("/categories.getAll", h.GetAllCategories)
		v1.GET("/categories.getBySlug", h.GetCategoryBySlug)

		v1.GET("/products.getAll", h.GetAllProducts)
		v1.GET("/products.getAllPaginated", h.GetAllProductsPaginated)
		v1.GET("/products.getBySlug", h.GetProductBySlug)
		v1.GET("/products.getFeatured", h.GetFeaturedProducts)

		v1.GET("/reviews.getByProduct", h.GetProductReviews)
		v1.POST("/reviews.create", h.CreateReview)

		v1.GET("/cart.get", h.GetCart)
		v1.POST("/cart.addItem", h.AddToCart)
		v1.POST("/cart.removeItem", h.RemoveFromCart)
		v1.POST("/cart.setQuantity", h.SetCartQuantity)
		v1.POST("/cart.clear", h.ClearCart)
		v1.POST("/session.setLocale", h.SetLocale)

		v1.POST("/orders.place", h.PlaceOrder)
	}

	// order access tokens are handed out by orders.place
	v2 := r.Group(endpointPrefix)
	{
		v2.Use(m.Authentication())
		v2.GET("/orders.getByNumber", h.GetOrderByNumber)
	}

	return r
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	c.Header("X-Trace-Id", traceId)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields under the names clients send them with
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// checkInput validates input and turns the first failure into a message for the client.
func checkInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		vErr := vErrs[0]
		switch vErr.Tag() {
		case "required":
			return fmt.Errorf("%s value missing", vErr.Field())
		case "min":
			return fmt.Errorf("%s value is less than %s", vErr.Field(), vErr.Param())
		case "max":
			return fmt.Errorf("%s value is more than %s", vErr.Field(), vErr.Param())
		case "oneof":
			return fmt.Errorf("%s must be one of: %s", vErr.Field(), vErr.Param())
		case "email":
			return fmt.Errorf("%s is not a valid email address", vErr.Field())
		default:
			return fmt.Errorf("%s is invalid", vErr.Field())
		}
	}
	return errors.New(http.StatusText(http.StatusBadRequest))
}

// requestLocale is the locale asked for by the locale query parameter, or else by Accept-Language.
func requestLocale(c *gin.Context) i18n.Locale {
	if l := i18n.Locale(c.Query("locale")); l.Valid() {
		return l
	}
	return i18n.Negotiate(c.GetHeader("Accept-Language"))
}
