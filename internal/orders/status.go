package orders

import (
	"fmt"

	"github.com/Glenne01/sneakers-sub000/pkg/models"
)

// transitions is the full order lifecycle. Forward steps only, one at a
// time; cancellation is possible until the order ships. delivered and
// cancelled are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

func NewStatus(value string) (models.OrderStatus, error) {
	status := models.OrderStatus(value)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("invalid order status: %s", value)
	}
	return status, nil
}

// CanTransition reports whether moving from one status to the next is legal.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
