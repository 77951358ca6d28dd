package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"storefront-service/internal/checkout"
	"storefront-service/internal/orders"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

const maxOrderBody = 64 * 1024

func (h *Handler) SubmitOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	o, ok := bindOrder(c, traceId)
	if !ok {
		return
	}
	if h.gateway == nil {
		abortWithSubmissionError(c, traceId, &checkout.ConfigurationError{Collaborator: checkout.PersistenceCollaborator, Err: errors.New("no order store")})
		return
	}

	if err := h.priceFromCatalogue(c.Request.Context(), o); err != nil {
		abortWithSubmissionError(c, traceId, err)
		return
	}

	session := cartSession(c, false)
	rec, err := h.gateway.SubmitOrder(c.Request.Context(), session, o)
	if err != nil {
		abortWithSubmissionError(c, traceId, err)
		return
	}

	h.clearCart(c.Request.Context(), traceId, session)
	h.logSecurityEvent(c, "order_created", "Order "+rec.OrderID+" created successfully")

	slog.Info("order submitted", slog.String(logkey.TraceID, traceId), slog.String(logkey.OrderID, rec.OrderID))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rec,
		"message": "Order submitted successfully",
	})
}

// bindOrder decodes the order body. A price that is not a number fails here.
func bindOrder(c *gin.Context, traceId string) (*orders.Order, bool) {
	if c.Request.ContentLength > maxOrderBody {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return nil, false
	}
	var o orders.Order
	if err := c.ShouldBindJSON(&o); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return nil, false
	}
	return &o, true
}

// clearCart runs only after the gateway reported success.
func (h *Handler) clearCart(ctx context.Context, traceId, session string) {
	if session == "" {
		return
	}
	if err := h.carts.Delete(ctx, session); err != nil {
		slog.Error("failed to clear cart after order", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Session, session), slog.String(logkey.ERROR, err.Error()))
	}
}

func (h *Handler) logSecurityEvent(c *gin.Context, eventType, description string) {
	if h.admin == nil {
		return
	}
	err := h.admin.LogSecurityEvent(c.Request.Context(), orders.SecurityEvent{
		EventType:   eventType,
		Description: description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		slog.Error("failed to record security event", slog.String(logkey.TraceID, ctxmanage.GetTraceIdOfRequest(c)),
			slog.String("EventType", eventType), slog.String(logkey.ERROR, err.Error()))
	}
}
