package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/stores/postgres"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"
)

const (
	DefaultPageSize      = 20
	DefaultFeaturedLimit = 8
)

const productColumns = `id, slug, sku,
	name_fr, name_en, name_he,
	description_fr, description_en, description_he,
	materials_fr, materials_en, materials_he,
	cultural_significance_fr, cultural_significance_en, cultural_significance_he,
	price_eur_cents, price_ils_cents, category_id, images, stock,
	is_new, is_featured, is_active, created_at, updated_at`

// Conf is the catalog store. A nil db is accepted: every read then returns an
// empty result instead of an error.
type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) Conf {
	return Conf{db: db}
}

// ListProducts returns active products matching opts.
func (c *Conf) ListProducts(ctx context.Context, opts ListOptions) ([]Product, error) {
	if c.db == nil {
		slog.Warn("catalog store unavailable, returning no products")
		return []Product{}, nil
	}

	where, args := whereClause(opts.Filter)
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where + ` ORDER BY ` + orderClause(opts.SortBy)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return c.queryProducts(ctx, query, args...)
}

// ListProductsPaginated returns one 1-indexed page of active products together with the
// number of products matching the filter. A page past the end is empty but still carries the total.
func (c *Conf) ListProductsPaginated(ctx context.Context, opts PageOptions) (Page, error) {
	page, pageSize := opts.Page, opts.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	out := Page{Products: []Product{}, Page: page, PageSize: pageSize}

	if c.db == nil {
		slog.Warn("catalog store unavailable, returning an empty page")
		return out, nil
	}

	where, args := whereClause(opts.Filter)
	var total int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total)
	if err != nil {
		if postgres.Unavailable(err) {
			slog.Warn("catalog store unavailable, returning an empty page", slog.String(logkey.ERROR, err.Error()))
			return out, nil
		}
		return Page{}, fmt.Errorf("counting products: %w", err)
	}
	out.Total = total
	out.TotalPages = TotalPages(total, pageSize)

	// compared as pages so that huge page numbers cannot overflow the offset
	if page > out.TotalPages {
		return out, nil
	}
	offset := (page - 1) * pageSize

	list, err := c.ListProducts(ctx, ListOptions{
		Filter: opts.Filter,
		SortBy: opts.SortBy,
		Limit:  pageSize,
		Offset: offset,
	})
	if err != nil {
		return Page{}, err
	}
	out.Products = list
	return out, nil
}

// GetFeatured lists featured products, at most limit of them (DefaultFeaturedLimit when limit is not positive).
func (c *Conf) GetFeatured(ctx context.Context, limit int) ([]Product, error) {
	if limit < 1 {
		limit = DefaultFeaturedLimit
	}
	featured := true
	return c.ListProducts(ctx, ListOptions{Filter: Filter{IsFeatured: &featured}, Limit: limit})
}

// GetProductBySlug returns the active product with exactly this slug, or nil when there is none.
func (c *Conf) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return c.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1 AND is_active = true LIMIT 1`, slug)
}

// GetProductByID returns the product with this id, active or not, or nil when there is none.
func (c *Conf) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	return c.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetProductsByIDs returns the products found for ids, active or not, in no particular order.
// Unknown ids are skipped.
func (c *Conf) GetProductsByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	if c.db == nil {
		slog.Warn("catalog store unavailable, returning no products")
		return []Product{}, nil
	}
	list, err := FindByIDs(ctx, c.db, ids)
	if err != nil && postgres.Unavailable(err) {
		slog.Warn("catalog store unavailable, returning no products", slog.String(logkey.ERROR, err.Error()))
		return []Product{}, nil
	}
	return list, err
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// FindByIDs reads the products with the given ids through q. Errors are returned as they
// come, so callers inside a transaction see them.
func FindByIDs(ctx context.Context, q Querier, ids []int64) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := q.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying products by id: %w", err)
	}
	return collectProducts(rows)
}

func (c *Conf) getOne(ctx context.Context, query string, arg any) (*Product, error) {
	if c.db == nil {
		slog.Warn("catalog store unavailable, product lookup returns nothing")
		return nil, nil
	}

	p, err := scanProduct(c.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if postgres.Unavailable(err) {
			slog.Warn("catalog store unavailable, product lookup returns nothing", slog.String(logkey.ERROR, err.Error()))
			return nil, nil
		}
		return nil, fmt.Errorf("querying product: %w", err)
	}
	return &p, nil
}

func (c *Conf) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		if postgres.Unavailable(err) {
			slog.Warn("catalog store unavailable, returning no products", slog.String(logkey.ERROR, err.Error()))
			return []Product{}, nil
		}
		return nil, fmt.Errorf("querying products: %w", err)
	}
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()

	list := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return list, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (Product, error) {
	var (
		p                      Product
		nameFr, nameEn, nameHe string
		descFr, descEn, descHe sql.NullString
		matFr, matEn, matHe    sql.NullString
		cultFr, cultEn, cultHe sql.NullString
		categoryID             sql.NullInt64
		images                 sql.NullString
	)
	err := row.Scan(&p.ID, &p.Slug, &p.SKU,
		&nameFr, &nameEn, &nameHe,
		&descFr, &descEn, &descHe,
		&matFr, &matEn, &matHe,
		&cultFr, &cultEn, &cultHe,
		&p.PriceEurCents, &p.PriceIlsCents, &categoryID, &images, &p.Stock,
		&p.IsNew, &p.IsFeatured, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}

	p.Translations = map[i18n.Locale]Translation{
		i18n.French:  {Name: nameFr, Description: descFr.String, Materials: matFr.String, CulturalNote: cultFr.String},
		i18n.English: {Name: nameEn, Description: descEn.String, Materials: matEn.String, CulturalNote: cultEn.String},
		i18n.Hebrew:  {Name: nameHe, Description: descHe.String, Materials: matHe.String, CulturalNote: cultHe.String},
	}
	if categoryID.Valid {
		id := categoryID.Int64
		p.CategoryID = &id
	}
	p.Images = ParseImages(images.String)
	return p, nil
}

func whereClause(f Filter) (string, []any) {
	conds := []string{"is_active = true"}
	var args []any
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.IsFeatured != nil {
		args = append(args, *f.IsFeatured)
		conds = append(conds, fmt.Sprintf("is_featured = $%d", len(args)))
	}
	if f.IsNew != nil {
		args = append(args, *f.IsNew)
		conds = append(conds, fmt.Sprintf("is_new = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

// popular has no metric of its own yet and shares the default ordering.
func orderClause(s SortBy) string {
	switch s {
	case SortPriceAsc:
		return "price_eur_cents ASC, id DESC"
	case SortPriceDesc:
		return "price_eur_cents DESC, id DESC"
	case SortNewest:
		return "created_at DESC, id DESC"
	default:
		return "is_featured DESC, created_at DESC, id DESC"
	}
}

// TotalPages is ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
