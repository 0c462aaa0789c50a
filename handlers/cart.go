package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/cart"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/money"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/ctxmanage"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "storefront-session"
	sessionIDKey      = "sid"
)

type cartView struct {
	Locale        i18n.Locale     `json:"locale"`
	Items         []cart.LineItem `json:"items"`
	Count         int             `json:"count"`
	Currency      money.Currency  `json:"currency"`
	TotalEurCents int64           `json:"totalEurCents"`
	TotalIlsCents int64           `json:"totalIlsCents"`
	DisplayTotal  string          `json:"displayTotal"`
}

func viewCart(s *cart.Session) cartView {
	cur := money.ForLocale(s.Locale())
	return cartView{
		Locale:        s.Locale(),
		Items:         s.Items(),
		Count:         s.Count(),
		Currency:      cur,
		TotalEurCents: s.Total(money.EUR),
		TotalIlsCents: s.Total(money.ILS),
		DisplayTotal:  money.Format(s.Total(cur), cur),
	}
}

// openSession loads the cart session of the request, creating the session cookie when the
// client has none. It must run before anything is written to the response.
func (h *Handler) openSession(c *gin.Context) (*cart.Session, error) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	sess, err := h.Sessions.Get(c.Request, sessionCookieName)
	if err != nil {
		// unreadable cookie, a fresh session is returned alongside the error
		slog.Warn("discarding session cookie", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}
	if sess == nil {
		return nil, errors.New("no session available")
	}

	sid, _ := sess.Values[sessionIDKey].(string)
	if sid == "" {
		sid = uuid.NewString()
		sess.Values[sessionIDKey] = sid
		if err := sess.Save(c.Request, c.Writer); err != nil {
			return nil, fmt.Errorf("saving session cookie: %w", err)
		}
	}

	return cart.Open(c.Request.Context(), h.Carts, sid)
}

func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	s, err := h.openSession(c)
	if err != nil {
		slog.Error("error opening cart session", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	c.JSON(http.StatusOK, viewCart(s))
}

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		ProductID int64 `json:"productId" validate:"required,min=1"`
		Quantity  *int  `json:"quantity" validate:"omitempty,min=1,max=99"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := checkInput(request); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity := 1
	if request.Quantity != nil {
		quantity = *request.Quantity
	}

	s, err := h.openSession(c)
	if err != nil {
		slog.Error("error opening cart session", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	// the price shown to the shopper right now is the one the cart keeps
	product, err := h.Catalog.GetProductByID(c.Request.Context(), request.ProductID)
	if err != nil {
		slog.Error("error fetching product details", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product details"})
		return
	}
	if product == nil || !product.IsActive {
		slog.Error("product not available", slog.String(logkey.TraceID, traceId), slog.Int64("ProductID", request.ProductID))
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	ref := cart.ProductRef{
		ProductID:     product.ID,
		ProductSlug:   product.Slug,
		ProductName:   product.Localize(s.Locale()).Name,
		ProductImage:  product.FirstImage(),
		PriceEurCents: product.PriceEurCents,
		PriceIlsCents: product.PriceIlsCents,
	}
	if err := s.AddItem(c.Request.Context(), ref, quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("error adding product to cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()),
			slog.Int64("ProductID", request.ProductID), slog.Int("Quantity", quantity))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to cart"})
		return
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.Session, s.ID()),
		slog.Int64("ProductID", request.ProductID), slog.Int("Quantity", quantity))
	c.JSON(http.StatusOK, viewCart(s))
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		ProductID int64 `json:"productId" validate:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := checkInput(request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.openSession(c)
	if err == nil {
		err = s.RemoveItem(c.Request.Context(), request.ProductID)
	}
	if err != nil {
		slog.Error("error removing product from cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, viewCart(s))
}

func (h *Handler) SetCartQuantity(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		ProductID int64 `json:"productId" validate:"required,min=1"`
		Quantity  *int  `json:"quantity" validate:"required,max=99"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := checkInput(request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.openSession(c)
	if err == nil {
		err = s.SetQuantity(c.Request.Context(), request.ProductID, *request.Quantity)
	}
	if err != nil {
		slog.Error("error updating cart quantity", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, viewCart(s))
}

func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	s, err := h.openSession(c)
	if err == nil {
		err = s.Clear(c.Request.Context())
	}
	if err != nil {
		slog.Error("error clearing cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, viewCart(s))
}

func (h *Handler) SetLocale(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		Locale string `json:"locale" validate:"required,oneof=fr en he"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := checkInput(request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.openSession(c)
	if err == nil {
		err = s.SetLocale(c.Request.Context(), i18n.Locale(request.Locale))
	}
	if err != nil {
		slog.Error("error setting locale", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locale": s.Locale(), "rtl": s.Locale().RTL()})
}
