package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/auth"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/cart"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/money"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/orders"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/stores/kafka"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/stores/postgres"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/ctxmanage"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"

	"github.com/gin-gonic/gin"
)

type placeOrderInput struct {
	Customer      orders.Customer `json:"customer"`
	Shipping      orders.Shipping `json:"shipping"`
	Currency      string          `json:"currency" validate:"omitempty,oneof=EUR ILS eur ils"`
	PaymentMethod string          `json:"paymentMethod" validate:"max=50"`
}

// PlaceOrder records the session cart as an order, empties the cart and hands back an
// access token for reading the order later. No payment is taken. The order stands even when
// no token could be issued; accessToken is then absent from the response.
func (h *Handler) PlaceOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 16*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var input placeOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := checkInput(input); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.openSession(c)
	if err != nil {
		slog.Error("error opening cart session", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	if s.Count() == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	currency := money.ForLocale(s.Locale())
	if input.Currency != "" {
		currency, _ = money.ParseCurrency(input.Currency)
	}

	order, err := h.Orders.PlaceOrder(c.Request.Context(), orders.NewOrder{
		Customer:      input.Customer,
		Shipping:      input.Shipping,
		Lines:         s.Items(),
		Currency:      currency,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrDatabaseUnavailable):
			slog.Error("order store unavailable", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Database not available"})
		case errors.Is(err, orders.ErrEmptyCart):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.Is(err, orders.ErrUnknownProduct), errors.Is(err, orders.ErrUnsupportedCurrency), errors.Is(err, cart.ErrInvalidQuantity):
			slog.Error("invalid order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.Error("error creating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	// the order is recorded at this point, failures below are logged only
	if err := s.Clear(c.Request.Context()); err != nil {
		slog.Error("error clearing cart after checkout", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Order, order.OrderNumber), slog.String(logkey.ERROR, err.Error()))
	}
	if h.Events != nil {
		go h.publishOrderPlaced(traceId, order)
	}

	resp := gin.H{
		"orderNumber": order.OrderNumber,
		"order":       order,
	}
	if token, err := h.Keys.IssueOrderToken(order.OrderNumber, order.Customer.Email); err != nil {
		slog.Error("error issuing order token", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Order, order.OrderNumber), slog.String(logkey.ERROR, err.Error()))
	} else {
		resp["accessToken"] = token
	}

	slog.Info("order placed", slog.String(logkey.TraceID, traceId), slog.String(logkey.Order, order.OrderNumber),
		slog.Int64("Total", order.TotalCents), slog.String("Currency", string(order.Currency)))
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) publishOrderPlaced(traceId string, order *orders.Order) {
	event := kafka.OrderPlacedEvent{
		OrderNumber: order.OrderNumber,
		Currency:    string(order.Currency),
		TotalCents:  order.TotalCents,
		Items:       make([]kafka.OrderPlacedItem, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
	}
	for _, it := range order.Items {
		event.Items = append(event.Items, kafka.OrderPlacedItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		slog.Error("error marshalling order placed event", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		return
	}
	if err := h.Events.ProduceMessage(kafka.TopicOrderPlaced, []byte(order.OrderNumber), jsonData); err != nil {
		slog.Error("error publishing order placed event", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Order, order.OrderNumber), slog.String(logkey.ERROR, err.Error()))
		return
	}
	slog.Info("order placed event published", slog.String(logkey.TraceID, traceId), slog.String(logkey.Order, order.OrderNumber))
}

func (h *Handler) GetOrderByNumber(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	orderNumber := c.Query("orderNumber")
	if orderNumber == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "orderNumber value missing"})
		return
	}
	if orderNumber != claims.Subject {
		slog.Error("token does not grant access to order", slog.String(logkey.TraceID, traceId), slog.String(logkey.Order, orderNumber))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": http.StatusText(http.StatusForbidden)})
		return
	}

	order, err := h.Orders.GetOrderByNumber(c.Request.Context(), orderNumber)
	if err != nil {
		slog.Error("error in retrieving order", slog.String(logkey.TraceID, traceId), slog.String(logkey.Order, orderNumber), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	if order == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
