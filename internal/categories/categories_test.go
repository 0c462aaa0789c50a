package categories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "slug", "name_fr", "name_en", "name_he", "created_at"}

func TestGetAllCategories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories ORDER BY name_fr ASC")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(7, "bracelets", "Bracelets", "Bracelets", "צמידים", now).
			AddRow(1, "chai", "Chaï", "Chai", "חי", now))

	c := NewConf(db)
	list, err := c.GetAllCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bracelets", list[0].Slug)
	assert.Equal(t, "חי", list[1].Name.In(i18n.Hebrew))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllCategoriesWithoutDatabase(t *testing.T) {
	c := NewConf(nil)
	list, err := c.GetAllCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{}, list)
}

func TestGetCategoryBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE slug = $1")).
		WithArgs("hamsa").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(4, "hamsa", "Hamsa", "Hamsa", "חמסה", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE slug = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	c := NewConf(db)
	cat, err := c.GetCategoryBySlug(context.Background(), "hamsa")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, int64(4), cat.ID)

	cat, err = c.GetCategoryBySlug(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, cat)
}
