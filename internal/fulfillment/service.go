package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Glenne01/sneakers-sub000/internal/customers"
	"github.com/Glenne01/sneakers-sub000/internal/integrations/mailer"
	"github.com/Glenne01/sneakers-sub000/internal/orders"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrPaymentNotConfirmed = errors.New("payment is not confirmed")

type PaymentVerifier interface {
	Verify(ctx context.Context, paymentRef string) (bool, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, userID int, items []orders.OrderItemInput, shippingAddress string, totalAmount decimal.Decimal) (*models.Order, error)
}

type StockDecrementer interface {
	Decrement(ctx context.Context, variantID, sizeID, amount int, refType models.ReferenceType, refID *int, reason *string, actorID *int) (*models.StockMovement, error)
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, msg mailer.OrderConfirmation) error
}

type NotificationQueue interface {
	Enqueue(ctx context.Context, msg mailer.OrderConfirmation) error
}

// Result is the durable outcome of a fulfillment.
type Result struct {
	OrderID     int    `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

// Service converts a confirmed payment into a durable order plus its stock
// effects.
//
// The failure policy is deliberately asymmetric: anything before the order
// row commits aborts the whole fulfillment, while stock decrements and the
// confirmation notification are non-fatal afterwards. The customer keeps
// their order even when bookkeeping partially fails; the movement trail and
// logs carry what reconciliation needs.
type Service struct {
	payments  PaymentVerifier
	customers customers.CustomerRepository
	orders    OrderCreator
	ledger    StockDecrementer
	notifier  Notifier
	queue     NotificationQueue
	log       *zap.Logger
}

func NewService(payments PaymentVerifier, customerRepo customers.CustomerRepository, orderRepo OrderCreator, ledger StockDecrementer, notifier Notifier, queue NotificationQueue, log *zap.Logger) *Service {
	return &Service{
		payments:  payments,
		customers: customerRepo,
		orders:    orderRepo,
		ledger:    ledger,
		notifier:  notifier,
		queue:     queue,
		log:       log,
	}
}

// Fulfill runs the whole pipeline for one confirmed-payment event.
func (s *Service) Fulfill(ctx context.Context, req FulfillmentRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	confirmed, err := s.payments.Verify(ctx, req.PaymentReference)
	if err != nil {
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}
	if !confirmed {
		return nil, ErrPaymentNotConfirmed
	}

	customer, err := s.resolveCustomer(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	items := make([]orders.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orders.OrderItemInput{
			VariantID:    item.VariantID,
			SizeID:       item.SizeID,
			ProductName:  item.ProductName,
			VariantColor: item.VariantColor,
			VariantSku:   item.VariantSku,
			SizeValue:    item.SizeValue,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
		})
	}

	order, err := s.orders.CreateOrder(ctx, customer.ID, items, req.ShippingAddress, req.Total())
	if err != nil {
		return nil, err
	}

	// The order is durable from here on. Decrement failures are logged and
	// skipped: stock may end up out of step with the order, which the
	// movement trail surfaces for reconciliation.
	for _, item := range req.Items {
		if _, err := s.ledger.Decrement(ctx, item.VariantID, item.SizeID, item.Quantity, models.ReferenceOrder, &order.ID, nil, nil); err != nil {
			s.log.Warn("stock decrement failed during fulfillment",
				zap.Int("order_id", order.ID),
				zap.String("order_number", order.OrderNumber),
				zap.Int("variant_id", item.VariantID),
				zap.Int("size_id", item.SizeID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}

	s.notify(ctx, order, req.CustomerEmail)

	return &Result{OrderID: order.ID, OrderNumber: order.OrderNumber}, nil
}

// resolveCustomer prefers the authenticated profile, falls back to the
// checkout email and finally creates a minimal guest profile. The match is
// best-effort: concurrent signups for the same email can produce duplicates.
func (s *Service) resolveCustomer(ctx context.Context, req *FulfillmentRequest) (*models.Customer, error) {
	if req.CustomerAuthID != nil && *req.CustomerAuthID != "" {
		customer, err := s.customers.FindByAuthID(ctx, *req.CustomerAuthID)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, customers.ErrCustomerNotFound) {
			return nil, err
		}
	}

	customer, err := s.customers.FindByEmail(ctx, req.CustomerEmail)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, customers.ErrCustomerNotFound) {
		return nil, err
	}

	return s.customers.Create(ctx, req.CustomerEmail)
}

func (s *Service) notify(ctx context.Context, order *models.Order, email string) {
	msg := mailer.OrderConfirmation{
		Email:       email,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	}

	if err := s.notifier.SendOrderConfirmation(ctx, msg); err != nil {
		s.log.Warn("order confirmation delivery failed",
			zap.Int("order_id", order.ID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))

		if s.queue == nil {
			return
		}
		if err := s.queue.Enqueue(ctx, msg); err != nil {
			s.log.Error("failed to queue order confirmation for retry",
				zap.Int("order_id", order.ID),
				zap.Error(err))
		}
	}
}
