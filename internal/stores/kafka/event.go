package kafka

import "time"

const (
	TopicOrderPlaced = `storefront.order-placed`
)

// OrderPlacedEvent is published once an order has been recorded.
type OrderPlacedEvent struct {
	OrderNumber string            `json:"orderNumber"`
	Currency    string            `json:"currency"`
	TotalCents  int64             `json:"totalCents"`
	Items       []OrderPlacedItem `json:"items"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type OrderPlacedItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
