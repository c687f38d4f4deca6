package orders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Glenne01/sneakers-sub000/pkg/auditlog"
	"github.com/Glenne01/sneakers-sub000/pkg/models"
	"github.com/Glenne01/sneakers-sub000/pkg/roles"
	"github.com/Glenne01/sneakers-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuditReader reads the persisted audit trail of a resource.
type AuditReader interface {
	GetResourceLog(id int, resourceType string) ([]models.AuditLog, error)
}

type OrderHandler struct {
	Repository *OrderRepository
	AuditLog   *auditlog.Auditlog
	LogReader  AuditReader
}

func NewOrderHandler(r *OrderRepository, a *auditlog.Auditlog, logs AuditReader) *OrderHandler {
	return &OrderHandler{
		Repository: r,
		AuditLog:   a,
		LogReader:  logs,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/orders/:id", security.Authorize(roles.Staff), h.GetOrder)
	router.GET("/orders/:id/log", security.Authorize(roles.Staff), h.GetOrderLog)
	router.PATCH("/orders/:id/status", security.Authorize(roles.Manager), h.UpdateStatus)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.Repository.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetOrderLog returns the audit trail of an order: status changes and the
// staff actions recorded against it.
func (h *OrderHandler) GetOrderLog(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	logs, err := h.LogReader.GetResourceLog(orderID, "order")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get order log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	next, err := NewStatus(req.Status)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Repository.UpdateStatus(c.Request.Context(), orderID, next); err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, ErrInvalidStatusTransition):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update order status"})
		}
		return
	}

	order, err := h.Repository.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get order"})
		return
	}

	go h.AuditLog.Log(
		"status_change",
		map[string]interface{}{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"msg":          "Order status updated",
		},
		order,
	)

	c.JSON(http.StatusOK, order)
}
