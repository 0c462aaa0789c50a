package handlers

import (
	"log/slog"
	"net/http"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/ctxmanage"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetAllCategories(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.Categories.GetAllCategories(c.Request.Context())
	if err != nil {
		slog.Error("error in listing categories", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetCategoryBySlug(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	slug := c.Query("slug")
	if slug == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "slug value missing"})
		return
	}

	category, err := h.Categories.GetCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		slog.Error("error in retrieving category", slog.String(logkey.TraceID, traceId), slog.String("Slug", slug), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}
	if category == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, category)
}
