package alerts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Glenne01/sneakers-sub000/pkg/roles"
	"github.com/Glenne01/sneakers-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	Engine *Engine
}

func NewAlertHandler(engine *Engine) *AlertHandler {
	return &AlertHandler{Engine: engine}
}

func (h *AlertHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/alerts", security.Authorize(roles.Staff), h.ListAlerts)
	router.PATCH("/alerts/:id/resolve", security.Authorize(roles.Staff), h.ResolveAlert)
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	status := c.Query("status")

	alertList, err := h.Engine.List(c.Request.Context(), status)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alertList})
}

func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	alertID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	resolvedBy := staffIDFromContext(c)

	alert, err := h.Engine.Resolve(c.Request.Context(), alertID, resolvedBy)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlertNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		case errors.Is(err, ErrAlertAlreadyResolved):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Alert already resolved"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to resolve alert"})
		}
		return
	}

	c.JSON(http.StatusOK, alert)
}

// staffIDFromContext reads the acting staff id set by the JWT middleware.
// Nil when the request carried no usable claim, so resolved_by stays NULL.
func staffIDFromContext(c *gin.Context) *int {
	raw, exists := c.Get("userID")
	if !exists {
		return nil
	}

	switch v := raw.(type) {
	case int:
		return &v
	case string:
		if id, err := strconv.Atoi(v); err == nil {
			return &id
		}
	case float64:
		id := int(v)
		return &id
	}
	return nil
}
