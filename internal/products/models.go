package products

import (
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
)

// Translation is the set of product fields written per locale.
type Translation struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Materials    string `json:"materials,omitempty"`
	CulturalNote string `json:"culturalNote,omitempty"`
}

type Product struct {
	ID            int64                       `json:"id"`
	Slug          string                      `json:"slug"`
	SKU           string                      `json:"sku"`
	Translations  map[i18n.Locale]Translation `json:"translations"`
	PriceEurCents int64                       `json:"priceEurCents"`
	PriceIlsCents int64                       `json:"priceIlsCents"`
	CategoryID    *int64                      `json:"categoryId"`
	Images        []string                    `json:"images"`
	Stock         int                         `json:"stock"`
	IsNew         bool                        `json:"isNew"`
	IsFeatured    bool                        `json:"isFeatured"`
	IsActive      bool                        `json:"isActive"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

// Localize resolves every translated field for l, each one falling back
// independently along i18n.Chain(l).
func (p Product) Localize(l i18n.Locale) Translation {
	var out Translation
	for _, c := range i18n.Chain(l) {
		t := p.Translations[c]
		if out.Name == "" {
			out.Name = t.Name
		}
		if out.Description == "" {
			out.Description = t.Description
		}
		if out.Materials == "" {
			out.Materials = t.Materials
		}
		if out.CulturalNote == "" {
			out.CulturalNote = t.CulturalNote
		}
	}
	return out
}

// FirstImage is the image shown in listings and snapshotted into carts. Empty when the product has none.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type SortBy string

const (
	SortPriceAsc  SortBy = "price-asc"
	SortPriceDesc SortBy = "price-desc"
	SortNewest    SortBy = "newest"
	SortPopular   SortBy = "popular"
)

func (s SortBy) Valid() bool {
	switch s {
	case "", SortPriceAsc, SortPriceDesc, SortNewest, SortPopular:
		return true
	}
	return false
}

// Filter narrows a listing. Nil fields do not constrain it.
type Filter struct {
	CategoryID *int64
	IsFeatured *bool
	IsNew      *bool
}

type ListOptions struct {
	Filter
	SortBy SortBy
	// Limit and Offset are ignored when zero.
	Limit  int
	Offset int
}

type PageOptions struct {
	Filter
	SortBy   SortBy
	Page     int
	PageSize int
}

type Page struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}
