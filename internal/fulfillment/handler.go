package fulfillment

import (
	"errors"
	"net/http"

	"github.com/Glenne01/sneakers-sub000/internal/orders"

	"github.com/gin-gonic/gin"
)

type FulfillmentHandler struct {
	Service *Service
}

func NewFulfillmentHandler(service *Service) *FulfillmentHandler {
	return &FulfillmentHandler{Service: service}
}

func (h *FulfillmentHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/fulfillments", h.Fulfill)
}

// Fulfill is the inbound confirmed-payment trigger. The caller receives
// either the durable order identity or a fatal error; partial downstream
// failures are invisible here by design.
func (h *FulfillmentHandler) Fulfill(c *gin.Context) {
	var req FulfillmentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result, err := h.Service.Fulfill(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrPaymentNotConfirmed):
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Payment is not confirmed"})
		case errors.Is(err, orders.ErrOrderNumberExhausted):
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to allocate an order number"})
		case errors.Is(err, orders.ErrOrderCreation):
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create order"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Fulfillment failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}
