package handlers

import (
	"log/slog"
	"net/http"

	"storefront-service/internal/checkout"
	"storefront-service/internal/orders"
	"storefront-service/internal/payments"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

type captureRequest struct {
	OrderID   string        `json:"orderID"`
	OrderData *orders.Order `json:"orderData"`
}

// CreatePaymentOrder opens a payable order with the processor for the submitted checkout.
func (h *Handler) CreatePaymentOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	o, ok := bindOrder(c, traceId)
	if !ok {
		return
	}
	if h.gateway == nil {
		abortWithSubmissionError(c, traceId, &checkout.ConfigurationError{Collaborator: checkout.PaymentCollaborator, Err: payments.ErrNotConfigured})
		return
	}

	if err := h.priceFromCatalogue(c.Request.Context(), o); err != nil {
		abortWithSubmissionError(c, traceId, err)
		return
	}

	pending, err := h.gateway.CreatePayment(c.Request.Context(), cartSession(c, false), o)
	if err != nil {
		abortWithSubmissionError(c, traceId, err)
		return
	}

	slog.Info("payment order created", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, o.OrderID), slog.String("ProcessorOrderID", pending.ProcessorOrderID))
	c.JSON(http.StatusOK, gin.H{
		"id":        pending.ProcessorOrderID,
		"processor": pending.Processor,
		"totals":    pending.Totals,
		"display":   pending.Totals.Rounded(),
	})
}

// CapturePaymentOrder captures an approved payment and records the paid order.
func (h *Handler) CapturePaymentOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > maxOrderBody {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}
	var request captureRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if request.OrderID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Please provide orderID"})
		return
	}
	if request.OrderData == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Please provide orderData"})
		return
	}
	if h.gateway == nil {
		abortWithSubmissionError(c, traceId, &checkout.ConfigurationError{Collaborator: checkout.PaymentCollaborator, Err: payments.ErrNotConfigured})
		return
	}

	if err := h.priceFromCatalogue(c.Request.Context(), request.OrderData); err != nil {
		abortWithSubmissionError(c, traceId, err)
		return
	}

	session := cartSession(c, false)
	paid, err := h.gateway.SubmitPaidOrder(c.Request.Context(), session, request.OrderData, request.OrderID)
	if err != nil {
		// cart stays intact on every failure
		abortWithSubmissionError(c, traceId, err)
		return
	}

	h.clearCart(c.Request.Context(), traceId, session)
	h.logSecurityEvent(c, "order_paid", "Order "+paid.Order.OrderID+" paid with "+paid.Order.PaymentMethod)

	slog.Info("payment captured and order recorded", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, paid.Order.OrderID), slog.String("TransactionID", paid.Capture.TransactionID))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    paid,
		"message": "Payment captured and order recorded",
	})
}

// CheckPaymentEnv reports which processor credentials are present, never their values.
func (h *Handler) CheckPaymentEnv(c *gin.Context) {
	enabled := h.gateway != nil && h.gateway.PaymentsEnabled()
	c.JSON(http.StatusOK, gin.H{
		"payments_enabled": enabled,
		"credentials":      h.paymentCredentials,
	})
}
