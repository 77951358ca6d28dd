package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront-service/internal/products"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

var categories = map[string]bool{"piano": true, "guitar": true, "violin": true, "ensemble": true}

func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	category := c.Query("category")
	if category == "all" {
		category = ""
	}
	if category != "" && !categories[category] {
		slog.Error("unknown category", slog.String(logkey.TraceID, traceId), slog.String("Category", category))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category parameter"})
		return
	}
	if h.catalogue == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return
	}

	list, err := h.catalogue.ListProducts(c.Request.Context(), category)
	if err != nil {
		slog.Error("error in fetching products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

func (h *Handler) GetProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	productID := c.Param("id")

	if h.catalogue == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return
	}
	product, err := h.catalogue.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			slog.Error("error in retrieving product", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		}
		return
	}
	c.JSON(http.StatusOK, product)
}
