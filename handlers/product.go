package handlers

import (
	"log/slog"
	"net/http"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/money"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/products"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/ctxmanage"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"

	"github.com/gin-gonic/gin"
)

type listProductsInput struct {
	CategoryID *int64 `form:"categoryId" json:"categoryId" validate:"omitempty,min=1"`
	IsFeatured *bool  `form:"isFeatured" json:"isFeatured"`
	IsNew      *bool  `form:"isNew" json:"isNew"`
	SortBy     string `form:"sortBy" json:"sortBy" validate:"omitempty,oneof=price-asc price-desc newest popular"`
	Limit      int    `form:"limit" json:"limit" validate:"min=0,max=100"`
	Offset     int    `form:"offset" json:"offset" validate:"min=0"`
}

func (in listProductsInput) options() products.ListOptions {
	return products.ListOptions{
		Filter: products.Filter{CategoryID: in.CategoryID, IsFeatured: in.IsFeatured, IsNew: in.IsNew},
		SortBy: products.SortBy(in.SortBy),
		Limit:  in.Limit,
		Offset: in.Offset,
	}
}

type pageProductsInput struct {
	CategoryID *int64 `form:"categoryId" json:"categoryId" validate:"omitempty,min=1"`
	IsFeatured *bool  `form:"isFeatured" json:"isFeatured"`
	IsNew      *bool  `form:"isNew" json:"isNew"`
	SortBy     string `form:"sortBy" json:"sortBy" validate:"omitempty,oneof=price-asc price-desc newest popular"`
	Page       int    `form:"page,default=1" json:"page" validate:"min=1"`
	PageSize   int    `form:"pageSize,default=20" json:"pageSize" validate:"min=1,max=100"`
}

func (in pageProductsInput) options() products.PageOptions {
	return products.PageOptions{
		Filter:   products.Filter{CategoryID: in.CategoryID, IsFeatured: in.IsFeatured, IsNew: in.IsNew},
		SortBy:   products.SortBy(in.SortBy),
		Page:     in.Page,
		PageSize: in.PageSize,
	}
}

// productView is a product with its fields resolved for the requested locale.
type productView struct {
	products.Product
	Locale       i18n.Locale          `json:"locale"`
	Localized    products.Translation `json:"localized"`
	DisplayPrice string               `json:"displayPrice"`
}

func viewProduct(p products.Product, l i18n.Locale) productView {
	cur := money.ForLocale(l)
	price := p.PriceEurCents
	if cur == money.ILS {
		price = p.PriceIlsCents
	}
	return productView{
		Product:      p,
		Locale:       l,
		Localized:    p.Localize(l),
		DisplayPrice: money.Format(price, cur),
	}
}

func viewProducts(list []products.Product, l i18n.Locale) []productView {
	views := make([]productView, 0, len(list))
	for _, p := range list {
		views = append(views, viewProduct(p, l))
	}
	return views
}

func (h *Handler) GetAllProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var input listProductsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		slog.Error("invalid query parameters", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	if err := checkInput(input); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.Catalog.ListProducts(c.Request.Context(), input.options())
	if err != nil {
		slog.Error("error in listing products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, viewProducts(list, requestLocale(c)))
}

func (h *Handler) GetAllProductsPaginated(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var input pageProductsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		slog.Error("invalid query parameters", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	if err := checkInput(input); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.Catalog.ListProductsPaginated(c.Request.Context(), input.options())
	if err != nil {
		slog.Error("error in paginating products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   viewProducts(page.Products, requestLocale(c)),
		"total":      page.Total,
		"page":       page.Page,
		"pageSize":   page.PageSize,
		"totalPages": page.TotalPages,
	})
}

func (h *Handler) GetProductBySlug(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	slug := c.Query("slug")
	if slug == "" {
		slog.Error("missing slug in request", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "slug value missing"})
		return
	}

	product, err := h.Catalog.GetProductBySlug(c.Request.Context(), slug)
	if err != nil {
		slog.Error("error in retrieving product", slog.String(logkey.TraceID, traceId), slog.String("Slug", slug), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	if product == nil {
		slog.Info("product not found", slog.String(logkey.TraceID, traceId), slog.String("Slug", slug))
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, viewProduct(*product, requestLocale(c)))
}

func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var input struct {
		Limit int `form:"limit,default=8" json:"limit" validate:"min=0,max=100"`
	}
	if err := c.ShouldBindQuery(&input); err != nil {
		slog.Error("invalid query parameters", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	if err := checkInput(input); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// limit=0 asks for the default, like an absent limit
	if input.Limit == 0 {
		input.Limit = products.DefaultFeaturedLimit
	}

	list, err := h.Catalog.GetFeatured(c.Request.Context(), input.Limit)
	if err != nil {
		slog.Error("error in listing featured products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, viewProducts(list, requestLocale(c)))
}
