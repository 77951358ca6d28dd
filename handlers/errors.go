package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront-service/internal/checkout"
	"storefront-service/internal/payments"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// abortWithSubmissionError maps gateway failures to responses. Collaborator detail
// goes to the log only.
func abortWithSubmissionError(c *gin.Context, traceId string, err error) {
	var (
		validationErr  *checkout.ValidationError
		postPaymentErr *checkout.PostPaymentPersistenceError
		mismatchErr    *checkout.AmountMismatchError
		configErr      *checkout.ConfigurationError
		collabErr      *checkout.CollaboratorError
	)

	switch {
	case errors.As(err, &validationErr):
		slog.Error("order validation failed", slog.String(logkey.TraceID, traceId),
			slog.String("Field", validationErr.Field), slog.String("Reason", validationErr.Reason))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason, "field": validationErr.Field})

	case errors.Is(err, checkout.ErrSubmissionInFlight):
		slog.Error("duplicate submission rejected", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.As(err, &postPaymentErr):
		slog.Error("payment captured but order not recorded", slog.String(logkey.TraceID, traceId),
			slog.String("TransactionID", postPaymentErr.TransactionID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":          "payment received, order recording failed - contact support",
			"transaction_id": postPaymentErr.TransactionID,
		})

	case errors.As(err, &mismatchErr):
		slog.Error("captured amount does not match order", slog.String(logkey.TraceID, traceId),
			slog.String("TransactionID", mismatchErr.TransactionID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "payment amount does not match order total - contact support",
			"transaction_id": mismatchErr.TransactionID,
		})

	case errors.As(err, &configErr):
		slog.Error("collaborator not configured", slog.String(logkey.TraceID, traceId),
			slog.String("Collaborator", configErr.Collaborator), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})

	case errors.As(err, &collabErr):
		slog.Error("collaborator failed", slog.String(logkey.TraceID, traceId),
			slog.String("Collaborator", collabErr.Collaborator), slog.String(logkey.ERROR, err.Error()))
		switch {
		case errors.Is(err, payments.ErrDeclined):
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Payment was declined"})
		case collabErr.Collaborator == checkout.PaymentCollaborator:
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Payment processing failed"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit order"})
		}

	default:
		slog.Error("order submission failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
