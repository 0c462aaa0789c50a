package reviews

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/stores/postgres"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"
)

type Review struct {
	ID                 int64     `json:"id"`
	ProductID          int64     `json:"productId"`
	CustomerName       string    `json:"customerName"`
	Rating             int       `json:"rating"`
	Comment            string    `json:"comment,omitempty"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase"`
	CreatedAt          time.Time `json:"createdAt"`
}

type NewReview struct {
	ProductID    int64  `json:"productId" validate:"required,min=1"`
	CustomerName string `json:"customerName" validate:"required,max=255"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"max=2000"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) Conf {
	return Conf{db: db}
}

// GetProductReviews lists the approved reviews of a product, newest first.
func (c *Conf) GetProductReviews(ctx context.Context, productID int64) ([]Review, error) {
	if c.db == nil {
		slog.Warn("review store unavailable, returning no reviews")
		return []Review{}, nil
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, product_id, customer_name, rating, comment, is_verified_purchase, created_at
		FROM reviews
		WHERE product_id = $1 AND is_approved = true
		ORDER BY created_at DESC
	`, productID)
	if err != nil {
		if postgres.Unavailable(err) {
			slog.Warn("review store unavailable, returning no reviews", slog.String(logkey.ERROR, err.Error()))
			return []Review{}, nil
		}
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	list := []Review{}
	for rows.Next() {
		var (
			r       Review
			comment sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.ProductID, &r.CustomerName, &r.Rating, &comment, &r.IsVerifiedPurchase, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		r.Comment = comment.String
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviews: %w", err)
	}
	return list, nil
}

// CreateReview stores a review awaiting moderation. It is not listed until approved.
func (c *Conf) CreateReview(ctx context.Context, nr NewReview) (int64, error) {
	if c.db == nil {
		return 0, postgres.ErrDatabaseUnavailable
	}
	if nr.Rating < 1 || nr.Rating > 5 {
		return 0, fmt.Errorf("rating %d is outside 1..5", nr.Rating)
	}

	var id int64
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO reviews (product_id, customer_name, rating, comment, is_verified_purchase, is_approved, created_at)
		VALUES ($1, $2, $3, $4, false, false, NOW())
		RETURNING id
	`, nr.ProductID, nr.CustomerName, nr.Rating, sql.NullString{String: nr.Comment, Valid: nr.Comment != ""}).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting review: %w", err)
	}
	return id, nil
}
