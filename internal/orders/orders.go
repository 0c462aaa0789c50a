package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/cart"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/money"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/products"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/stores/postgres"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrUnknownProduct      = errors.New("unknown product")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) *Conf {
	return &Conf{db: db}
}

type NewOrder struct {
	Customer      Customer
	Shipping      Shipping
	Lines         []cart.LineItem
	Currency      money.Currency
	PaymentMethod string
}

// PlaceOrder records the cart lines as a pending order. Each line is frozen into an order
// item with the product SKU looked up, in one query, at call time. Stock is left untouched.
func (c *Conf) PlaceOrder(ctx context.Context, no NewOrder) (*Order, error) {
	if c.db == nil {
		return nil, postgres.ErrDatabaseUnavailable
	}
	if len(no.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if !no.Currency.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, no.Currency)
	}
	for _, l := range no.Lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("product %d: %w", l.ProductID, cart.ErrInvalidQuantity)
		}
	}

	order := &Order{
		OrderNumber:   NewOrderNumber(time.Now()),
		Customer:      no.Customer,
		Shipping:      no.Shipping,
		Status:        StatusPending,
		PaymentMethod: no.PaymentMethod,
		PaymentStatus: PaymentPending,
		Totals:        ComputeTotals(no.Lines, no.Currency),
	}

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		ids := make([]int64, 0, len(no.Lines))
		for _, l := range no.Lines {
			ids = append(ids, l.ProductID)
		}
		found, err := products.FindByIDs(ctx, tx, ids)
		if err != nil {
			return fmt.Errorf("failed to look up products: %w", err)
		}
		byID := make(map[int64]products.Product, len(found))
		for _, p := range found {
			byID[p.ID] = p
		}

		items := make([]Item, 0, len(no.Lines))
		for _, l := range no.Lines {
			p, ok := byID[l.ProductID]
			if !ok {
				return fmt.Errorf("%w: %d", ErrUnknownProduct, l.ProductID)
			}

			name := l.ProductName
			if name == "" {
				name = p.Localize(i18n.Default).Name
			}
			unit := l.UnitPrice(no.Currency)
			items = append(items, Item{
				ProductID:         l.ProductID,
				ProductName:       name,
				ProductSKU:        p.SKU,
				ProductImage:      l.ProductImage,
				Quantity:          l.Quantity,
				PricePerItemCents: unit,
				TotalCents:        unit * int64(l.Quantity),
			})
		}

		queryInsertOrder := `
			INSERT INTO orders (
				order_number, customer_name, customer_email, customer_phone,
				shipping_address, shipping_city, shipping_postal_code, shipping_country,
				subtotal_cents, shipping_cents, tax_cents, total_cents, currency,
				status, payment_method, payment_status, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
			RETURNING id, created_at
		`
		err = tx.QueryRowContext(ctx, queryInsertOrder,
			order.OrderNumber, order.Customer.Name, order.Customer.Email, nullString(order.Customer.Phone),
			order.Shipping.Address, order.Shipping.City, order.Shipping.PostalCode, order.Shipping.Country,
			order.SubtotalCents, order.ShippingCents, order.TaxCents, order.TotalCents, string(order.Currency),
			string(order.Status), nullString(order.PaymentMethod), string(order.PaymentStatus),
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		queryInsertItem := `
			INSERT INTO order_items (
				order_id, product_id, product_name, product_sku, product_image,
				quantity, price_per_item_cents, total_cents, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		`
		for _, it := range items {
			_, err = tx.ExecContext(ctx, queryInsertItem,
				order.ID, it.ProductID, it.ProductName, it.ProductSKU, nullString(it.ProductImage),
				it.Quantity, it.PricePerItemCents, it.TotalCents)
			if err != nil {
				return fmt.Errorf("failed to insert order item for product %d: %w", it.ProductID, err)
			}
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderByNumber returns the order and its items, or nil when there is no such order
// or the database cannot be reached.
func (c *Conf) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	if c.db == nil {
		slog.Warn("order store unavailable, order lookup returns nothing")
		return nil, nil
	}

	var (
		o                    Order
		phone, paymentMethod sql.NullString
		currency             string
		status, payStatus    string
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT id, order_number, customer_name, customer_email, customer_phone,
			shipping_address, shipping_city, shipping_postal_code, shipping_country,
			subtotal_cents, shipping_cents, tax_cents, total_cents, currency,
			status, payment_method, payment_status, created_at
		FROM orders
		WHERE order_number = $1
	`, orderNumber).Scan(&o.ID, &o.OrderNumber, &o.Customer.Name, &o.Customer.Email, &phone,
		&o.Shipping.Address, &o.Shipping.City, &o.Shipping.PostalCode, &o.Shipping.Country,
		&o.SubtotalCents, &o.ShippingCents, &o.TaxCents, &o.TotalCents, &currency,
		&status, &paymentMethod, &payStatus, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if postgres.Unavailable(err) {
			slog.Warn("order store unavailable, order lookup returns nothing", slog.String(logkey.ERROR, err.Error()))
			return nil, nil
		}
		return nil, fmt.Errorf("querying order: %w", err)
	}
	o.Customer.Phone = phone.String
	o.PaymentMethod = paymentMethod.String
	o.Currency = money.Currency(currency)
	o.Status = Status(status)
	o.PaymentStatus = PaymentStatus(payStatus)

	rows, err := c.db.QueryContext(ctx, `
		SELECT product_id, product_name, product_sku, product_image, quantity, price_per_item_cents, total_cents
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	o.Items = []Item{}
	for rows.Next() {
		var (
			it    Item
			image sql.NullString
		)
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.ProductSKU, &image, &it.Quantity, &it.PricePerItemCents, &it.TotalCents); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		it.ProductImage = image.String
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order items: %w", err)
	}
	return &o, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		er := tx.Rollback()
		if er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return fmt.Errorf("failed to execute withTx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
