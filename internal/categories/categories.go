package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/stores/postgres"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"
)

type Category struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Name      i18n.Text `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) Conf {
	return Conf{db: db}
}

// GetAllCategories lists every category ordered by its French name.
func (c *Conf) GetAllCategories(ctx context.Context) ([]Category, error) {
	if c.db == nil {
		slog.Warn("catalog store unavailable, returning no categories")
		return []Category{}, nil
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, slug, name_fr, name_en, name_he, created_at
		FROM categories
		ORDER BY name_fr ASC
	`)
	if err != nil {
		if postgres.Unavailable(err) {
			slog.Warn("catalog store unavailable, returning no categories", slog.String(logkey.ERROR, err.Error()))
			return []Category{}, nil
		}
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	list := []Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		list = append(list, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return list, nil
}

// GetCategoryBySlug returns nil when no category has this slug.
func (c *Conf) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	if c.db == nil {
		return nil, nil
	}

	row := c.db.QueryRowContext(ctx, `
		SELECT id, slug, name_fr, name_en, name_he, created_at
		FROM categories
		WHERE slug = $1
		LIMIT 1
	`, slug)
	cat, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if postgres.Unavailable(err) {
			slog.Warn("catalog store unavailable, category lookup returns nothing", slog.String(logkey.ERROR, err.Error()))
			return nil, nil
		}
		return nil, fmt.Errorf("querying category: %w", err)
	}
	return &cat, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (Category, error) {
	var (
		cat                    Category
		nameFr, nameEn, nameHe string
	)
	if err := row.Scan(&cat.ID, &cat.Slug, &nameFr, &nameEn, &nameHe, &cat.CreatedAt); err != nil {
		return Category{}, err
	}
	cat.Name = i18n.Text{i18n.French: nameFr, i18n.English: nameEn, i18n.Hebrew: nameHe}
	return cat, nil
}
