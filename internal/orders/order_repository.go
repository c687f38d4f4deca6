package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/Glenne01/sneakers-sub000/internal/repository"
	custom_error "github.com/Glenne01/sneakers-sub000/pkg/errors"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderCreation           = errors.New("order creation failed")
	ErrOrderNumberExhausted    = errors.New("could not generate a unique order number")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// OrderItemInput carries the catalog snapshot for one purchased line.
type OrderItemInput struct {
	VariantID    int
	SizeID       int
	ProductName  string
	VariantColor string
	VariantSku   string
	SizeValue    string
	UnitPrice    decimal.Decimal
	Quantity     int
}

type OrderRepository struct {
	repository        *repository.Repository
	numberPrefix      string
	numberMaxAttempts int
}

func NewRepository(r *repository.Repository, numberPrefix string, numberMaxAttempts int) *OrderRepository {
	if numberMaxAttempts <= 0 {
		numberMaxAttempts = 5
	}
	return &OrderRepository{
		repository:        r,
		numberPrefix:      numberPrefix,
		numberMaxAttempts: numberMaxAttempts,
	}
}

// CreateOrder persists the order row and every item snapshot as one
// transaction: an order never exists without its items. Order-number
// collisions roll the whole attempt back and retry with a fresh number, up
// to the configured bound.
func (r *OrderRepository) CreateOrder(ctx context.Context, userID int, items []OrderItemInput, shippingAddress string, totalAmount decimal.Decimal) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: an order requires at least one item", ErrOrderCreation)
	}

	for attempt := 0; attempt < r.numberMaxAttempts; attempt++ {
		orderNumber, err := GenerateOrderNumber(r.numberPrefix)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
		}

		order, err := r.createWithNumber(ctx, orderNumber, userID, items, shippingAddress, totalAmount)
		if err == nil {
			return order, nil
		}
		if custom_error.IsUniqueViolation(err) {
			continue
		}

		return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}

	return nil, ErrOrderNumberExhausted
}

func (r *OrderRepository) createWithNumber(ctx context.Context, orderNumber string, userID int, items []OrderItemInput, shippingAddress string, totalAmount decimal.Decimal) (*models.Order, error) {
	order := &models.Order{
		OrderNumber:     orderNumber,
		UserID:          userID,
		Status:          models.OrderPending,
		TotalAmount:     totalAmount,
		ShippingAddress: shippingAddress,
	}

	err := repository.WithTransaction(ctx, r.repository.DB, func(tx *goqu.TxDatabase) error {
		insertOrder := tx.Insert("orders").
			Rows(goqu.Record{
				"order_number":     orderNumber,
				"user_id":          userID,
				"status":           models.OrderPending,
				"total_amount":     totalAmount,
				"shipping_address": shippingAddress,
			}).
			Returning("id", "created_at", "updated_at")

		if _, err := insertOrder.Executor().ScanStructContext(ctx, order); err != nil {
			return err
		}

		for _, item := range items {
			lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

			orderItem := models.OrderItem{
				OrderID:              order.ID,
				VariantID:            item.VariantID,
				SizeID:               item.SizeID,
				ProductNameSnapshot:  item.ProductName,
				VariantColorSnapshot: item.VariantColor,
				VariantSkuSnapshot:   item.VariantSku,
				SizeValueSnapshot:    item.SizeValue,
				UnitPrice:            item.UnitPrice,
				Quantity:             item.Quantity,
				LineTotal:            lineTotal,
			}

			insertItem := tx.Insert("order_items").
				Rows(goqu.Record{
					"order_id":               orderItem.OrderID,
					"variant_id":             orderItem.VariantID,
					"size_id":                orderItem.SizeID,
					"product_name_snapshot":  orderItem.ProductNameSnapshot,
					"variant_color_snapshot": orderItem.VariantColorSnapshot,
					"variant_sku_snapshot":   orderItem.VariantSkuSnapshot,
					"size_value_snapshot":    orderItem.SizeValueSnapshot,
					"unit_price":             orderItem.UnitPrice,
					"quantity":               orderItem.Quantity,
					"line_total":             orderItem.LineTotal,
				}).
				Returning("id")

			if _, err := insertItem.Executor().ScanValContext(ctx, &orderItem.ID); err != nil {
				return fmt.Errorf("failed to insert order item for variant %d: %w", item.VariantID, err)
			}

			order.Items = append(order.Items, orderItem)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateStatus moves an order along its state machine. The current status is
// read under a row lock so concurrent updates serialize.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int, next models.OrderStatus) error {
	if _, err := NewStatus(string(next)); err != nil {
		return ErrInvalidStatusTransition
	}

	return repository.WithTransaction(ctx, r.repository.DB, func(tx *goqu.TxDatabase) error {
		var current models.OrderStatus
		query := tx.Select("status").
			From("orders").
			Where(goqu.Ex{"id": orderID}).
			ForUpdate(exp.Wait)

		found, err := query.Executor().ScanValContext(ctx, &current)
		if err != nil {
			return fmt.Errorf("failed to read order status: %w", err)
		}
		if !found {
			return ErrOrderNotFound
		}

		if !CanTransition(current, next) {
			return ErrInvalidStatusTransition
		}

		update := tx.Update("orders").
			Set(goqu.Record{
				"status":     next,
				"updated_at": goqu.L("NOW()"),
			}).
			Where(goqu.Ex{"id": orderID})

		if _, err := update.Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		return nil
	})
}

// GetOrder loads an order with its item snapshots.
func (r *OrderRepository) GetOrder(ctx context.Context, orderID int) (*models.Order, error) {
	var order models.Order
	query := r.repository.GoquDBWrapper.
		From("orders").
		Where(goqu.Ex{"id": orderID})

	found, err := query.Executor().ScanStructContext(ctx, &order)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !found {
		return nil, ErrOrderNotFound
	}

	itemsQuery := r.repository.GoquDBWrapper.
		From("order_items").
		Where(goqu.Ex{"order_id": orderID}).
		Order(goqu.I("id").Asc())

	if err := itemsQuery.Executor().ScanStructsContext(ctx, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	return &order, nil
}
