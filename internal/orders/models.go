package orders

import (
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/money"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Customer struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=320"`
	Phone string `json:"phone,omitempty" validate:"max=50"`
}

type Shipping struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

// Totals of an order, in minor units of Currency.
type Totals struct {
	Currency      money.Currency `json:"currency"`
	SubtotalCents int64          `json:"subtotalCents"`
	ShippingCents int64          `json:"shippingCents"`
	TaxCents      int64          `json:"taxCents"`
	TotalCents    int64          `json:"totalCents"`
}

type Order struct {
	ID            int64         `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	Customer      Customer      `json:"customer"`
	Shipping      Shipping      `json:"shipping"`
	Status        Status        `json:"status"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Items         []Item        `json:"items"`
	CreatedAt     time.Time     `json:"createdAt"`
	Totals
}

// Item freezes the product as it was when the order was placed.
type Item struct {
	ProductID         int64  `json:"productId"`
	ProductName       string `json:"productName"`
	ProductSKU        string `json:"productSku"`
	ProductImage      string `json:"productImage,omitempty"`
	Quantity          int    `json:"quantity"`
	PricePerItemCents int64  `json:"pricePerItemCents"`
	TotalCents        int64  `json:"totalCents"`
}
