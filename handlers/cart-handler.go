package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront-service/internal/cart"
	"storefront-service/internal/products"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=100"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=99"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	session := cartSession(c, false)
	if session == "" {
		c.JSON(http.StatusOK, cart.New().Response())
		return
	}
	crt, err := h.carts.Load(c.Request.Context(), session)
	if err != nil {
		slog.Error("error loading cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, crt.Response())
}

func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if session := cartSession(c, false); session != "" {
		if err := h.carts.Delete(c.Request.Context(), session); err != nil {
			slog.Error("error clearing cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
	}
	c.JSON(http.StatusOK, cart.New().Response())
}

// AddCartItem adds a catalogue product at its catalogue price.
func (h *Handler) AddCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var request addItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := validator.New().Struct(request); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	if h.catalogue == nil {
		slog.Error("catalogue not configured", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return
	}
	product, err := h.catalogue.GetProduct(c.Request.Context(), request.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String("ProductID", request.ProductID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		slog.Error("error fetching product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	session := cartSession(c, true)
	crt, err := h.carts.Load(c.Request.Context(), session)
	if err != nil {
		slog.Error("error loading cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	crt.AddItem(product.LineItem(request.Quantity))
	if err := h.carts.Save(c.Request.Context(), session, crt); err != nil {
		slog.Error("error saving cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	slog.Info("item added to cart", slog.String(logkey.TraceID, traceId), slog.String("ProductID", product.ID), slog.Int("Items", crt.Len()))
	c.JSON(http.StatusOK, crt.Response())
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	itemID := c.Param("id")

	var request updateItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session := cartSession(c, false)
	if session == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}
	crt, err := h.carts.Load(c.Request.Context(), session)
	if err != nil {
		slog.Error("error loading cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	switch err := crt.UpdateQuantity(itemID, request.Quantity); {
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, cart.ErrItemNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	if err := h.carts.Save(c.Request.Context(), session, crt); err != nil {
		slog.Error("error saving cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, crt.Response())
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	session := cartSession(c, false)
	if session == "" {
		c.JSON(http.StatusOK, cart.New().Response())
		return
	}
	crt, err := h.carts.Load(c.Request.Context(), session)
	if err != nil {
		slog.Error("error loading cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	crt.RemoveItem(c.Param("id"))
	if err := h.carts.Save(c.Request.Context(), session, crt); err != nil {
		slog.Error("error saving cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, crt.Response())
}
