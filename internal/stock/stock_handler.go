package stock

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

type StockHandler struct {
	Ledger   *Ledger
	AuditLog *auditlog.Auditlog
}

func NewStockHandler(ledger *Ledger, a *auditlog.Auditlog) *StockHandler {
	return &StockHandler{
		Ledger:   ledger,
		AuditLog: a,
	}
}

func (h *StockHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/stocks/adjustments", security.Authorize(roles.Manager), h.AdjustStock)
	router.POST("/stocks/restock", security.Authorize(roles.Staff), h.Restock)
	router.GET("/stocks/overview", security.Authorize(roles.Staff), h.GetOverview)
	router.GET("/stocks/:variant_id/:size_id/movements", security.Authorize(roles.Staff), h.GetMovements)
}

// AdjustStock is the manual path into the ledger: it validates the mandatory
// reason and delegates to SetQuantity. No other business logic lives here.
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Reason == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Reason is required for manual adjustments"})
		return
	}

	actorID := staffIDFromContext(c)

	movement, err := h.Ledger.SetQuantity(c.Request.Context(), req.VariantID, req.SizeID, *req.NewQuantity, req.Reason, actorID)
	if err != nil {
		h.abortWithLedgerError(c, err)
		return
	}

	go h.AuditLog.Log(
		"adjust",
		map[string]interface{}{
			"variant_id":   req.VariantID,
			"size_id":      req.SizeID,
			"new_quantity": movement.QuantityAfter,
			"reason":       req.Reason,
			"msg":          "Manual stock adjustment",
		},
		&models.StockLevel{VariantID: req.VariantID, SizeID: req.SizeID, Quantity: movement.QuantityAfter},
	)

	c.JSON(http.StatusOK, gin.H{
		"quantity":    movement.QuantityAfter,
		"movement_id": movement.ID,
	})
}

// Restock adds received units; used by the staff goods-in flow.
func (h *StockHandler) Restock(c *gin.Context) {
	var req RestockRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actorID := staffIDFromContext(c)

	movement, err := h.Ledger.Increment(c.Request.Context(), req.VariantID, req.SizeID, req.Amount, models.ReferenceRestock, nil, req.Reason, actorID)
	if err != nil {
		h.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quantity":    movement.QuantityAfter,
		"movement_id": movement.ID,
	})
}

func (h *StockHandler) GetOverview(c *gin.Context) {
	var filter OverviewFilter

	if raw := c.Query("variant_id"); raw != "" {
		variantID, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid variant_id filter"})
			return
		}
		filter.VariantID = &variantID
	}
	filter.OnlyActiveAlerts = c.Query("only_active_alerts") == "true"

	rows, err := h.Ledger.GetOverview(c.Request.Context(), filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load stock overview"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stocks": rows})
}

func (h *StockHandler) GetMovements(c *gin.Context) {
	variantID, err := strconv.Atoi(c.Param("variant_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid variant ID"})
		return
	}
	sizeID, err := strconv.Atoi(c.Param("size_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid size ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 0 {
		limit = 50
	}

	movements, err := h.Ledger.GetMovements(c.Request.Context(), variantID, sizeID, uint(limit))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load stock movements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

func (h *StockHandler) abortWithLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrStockLevelNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No stock level exists for this variant and size"})
	case errors.Is(err, ErrInsufficientStock):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
	case errors.Is(err, ErrReasonRequired), errors.Is(err, ErrNonPositiveAmount), errors.Is(err, ErrNegativeQuantity):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Stock operation failed"})
	}
}

// staffIDFromContext reads the acting staff id set by the JWT middleware.
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
