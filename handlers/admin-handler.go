package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/orders"
	"storefront-service/internal/stores/kafka"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped completed"`
}

func (h *Handler) AdminLogin(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	if err := validator.New().Struct(request); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	if h.admins == nil {
		slog.Error("admin credentials not configured", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin authentication not configured"})
		return
	}
	if err := h.admins.Authenticate(request.Email, request.Password); err != nil {
		if errors.Is(err, auth.ErrAdminNotConfigured) {
			slog.Error("admin credentials not configured", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin authentication not configured"})
			return
		}
		slog.Warn("failed login attempt", slog.String(logkey.TraceID, traceId), slog.String("Email", request.Email))
		h.logSecurityEvent(c, "admin_login_failed", "Failed login attempt for "+request.Email)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, expires, err := h.keys.GenerateToken(request.Email, auth.RoleAdmin)
	if err != nil {
		slog.Error("error generating token", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	slog.Info("successful admin login", slog.String(logkey.TraceID, traceId), slog.String("Email", request.Email))
	h.logSecurityEvent(c, "admin_login", "Admin "+request.Email+" logged in")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":      token,
			"expires_at": expires.UTC().Format(time.RFC3339),
			"user":       gin.H{"email": request.Email, "role": strings.ToLower(auth.RoleAdmin)},
		},
		"message": "Login successful",
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	if !h.adminReady(c) {
		return
	}

	list, err := h.admin.ListOrders(c.Request.Context())
	if err != nil {
		slog.Error("error fetching orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	h.logSecurityEvent(c, "admin_orders_viewed", fmt.Sprintf("Admin %s viewed %d orders", adminEmail(c), len(list)))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "count": len(list)})
}

func (h *Handler) SearchOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	if !h.adminReady(c) {
		return
	}

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Search term is required"})
		return
	}
	list, err := h.admin.SearchOrders(c.Request.Context(), term)
	if err != nil {
		slog.Error("error searching orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to search orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "count": len(list)})
}

func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	if !h.adminReady(c) {
		return
	}
	orderID := c.Param("orderId")

	rec, err := h.admin.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("error fetching order", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, orderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	h.logSecurityEvent(c, "admin_order_viewed", fmt.Sprintf("Admin %s viewed order %s", adminEmail(c), orderID))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
}

func (h *Handler) OrderStats(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	if !h.adminReady(c) {
		return
	}

	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		slog.Error("error fetching order stats", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	if !h.adminReady(c) {
		return
	}
	orderID := c.Param("orderId")

	var request statusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := validator.New().Struct(request); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be one of: pending, processing, shipped, completed"})
		return
	}
	status, err := orders.ParseStatus(request.Status)
	if err != nil || !status.AdminSettable() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be one of: pending, processing, shipped, completed"})
		return
	}

	email := adminEmail(c)
	updated, oldStatus, err := h.admin.UpdateStatus(c.Request.Context(), orderID, status, email)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("error updating order status", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, orderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	h.logSecurityEvent(c, "order_status_updated",
		fmt.Sprintf("Order %s status changed from %s to %s by %s", orderID, oldStatus, status, email))
	h.publishStatusUpdate(c, updated, oldStatus)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated, "message": "Order status updated successfully"})
}

func (h *Handler) publishStatusUpdate(c *gin.Context, rec orders.Record, oldStatus orders.Status) {
	if h.publisher == nil {
		return
	}
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	event, err := json.Marshal(kafka.OrderEvent{
		OrderID:       rec.OrderID,
		Status:        string(rec.Status),
		PreviousState: string(oldStatus),
		CustomerEmail: rec.CustomerEmail,
		OrderTotal:    rec.OrderTotal,
		CreatedAt:     time.Now().UTC(),
	})
	if err == nil {
		err = h.publisher.ProduceMessage(c.Request.Context(), kafka.TopicOrderStatusUpdated, []byte(rec.OrderID), event)
	}
	if err != nil {
		slog.Error("failed to publish status update", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, rec.OrderID), slog.String(logkey.ERROR, err.Error()))
	}
}

func (h *Handler) adminReady(c *gin.Context) bool {
	if h.admin == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		return false
	}
	return true
}

func adminEmail(c *gin.Context) string {
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		return "unknown"
	}
	return claims.Email
}
