package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/reviews"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/stores/postgres"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/ctxmanage"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetProductReviews(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var input struct {
		ProductID int64 `form:"productId" json:"productId" validate:"required,min=1"`
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

	list, err := h.Reviews.GetProductReviews(c.Request.Context(), input.ProductID)
	if err != nil {
		slog.Error("error in listing reviews", slog.String(logkey.TraceID, traceId), slog.Int64("ProductID", input.ProductID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateReview(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var newReview reviews.NewReview
	if err := c.ShouldBindJSON(&newReview); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := checkInput(newReview); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Catalog.GetProductByID(c.Request.Context(), newReview.ProductID)
	if err != nil {
		slog.Error("error in retrieving product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	if product == nil || !product.IsActive {
		slog.Error("product not available for review", slog.String(logkey.TraceID, traceId), slog.Int64("ProductID", newReview.ProductID))
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	id, err := h.Reviews.CreateReview(c.Request.Context(), newReview)
	if err != nil {
		if errors.Is(err, postgres.ErrDatabaseUnavailable) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Database not available"})
			return
		}
		slog.Error("error in inserting the review", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Review Creation Failed"})
		return
	}

	slog.Info("review submitted", slog.String(logkey.TraceID, traceId), slog.Int64("ReviewID", id), slog.Int64("ProductID", newReview.ProductID))
	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Review submitted for moderation"})
}
