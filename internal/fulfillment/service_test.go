package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/Glenne01/sneakers-sub000/internal/customers"
	"github.com/Glenne01/sneakers-sub000/internal/integrations/mailer"
	"github.com/Glenne01/sneakers-sub000/internal/orders"
	"github.com/Glenne01/sneakers-sub000/internal/stock"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockPaymentVerifier struct {
	mock.Mock
}

func (m *MockPaymentVerifier) Verify(ctx context.Context, paymentRef string) (bool, error) {
	args := m.Called(ctx, paymentRef)
	return args.Bool(0), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByAuthID(ctx context.Context, authID string) (*models.Customer, error) {
	args := m.Called(ctx, authID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, email string) (*models.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

type MockOrderCreator struct {
	mock.Mock
}

func (m *MockOrderCreator) CreateOrder(ctx context.Context, userID int, items []orders.OrderItemInput, shippingAddress string, totalAmount decimal.Decimal) (*models.Order, error) {
	args := m.Called(ctx, userID, items, shippingAddress, totalAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockStockDecrementer struct {
	mock.Mock
}

func (m *MockStockDecrementer) Decrement(ctx context.Context, variantID, sizeID, amount int, refType models.ReferenceType, refID *int, reason *string, actorID *int) (*models.StockMovement, error) {
	args := m.Called(ctx, variantID, sizeID, amount, refType, refID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockMovement), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOrderConfirmation(ctx context.Context, msg mailer.OrderConfirmation) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockNotificationQueue struct {
	mock.Mock
}

func (m *MockNotificationQueue) Enqueue(ctx context.Context, msg mailer.OrderConfirmation) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type serviceMocks struct {
	payments  *MockPaymentVerifier
	customers *MockCustomerRepository
	orders    *MockOrderCreator
	ledger    *MockStockDecrementer
	notifier  *MockNotifier
	queue     *MockNotificationQueue
}

func newTestService() (*Service, *serviceMocks) {
	m := &serviceMocks{
		payments:  new(MockPaymentVerifier),
		customers: new(MockCustomerRepository),
		orders:    new(MockOrderCreator),
		ledger:    new(MockStockDecrementer),
		notifier:  new(MockNotifier),
		queue:     new(MockNotificationQueue),
	}
	service := NewService(m.payments, m.customers, m.orders, m.ledger, m.notifier, m.queue, zap.NewNop())
	return service, m
}

func validRequest() FulfillmentRequest {
	return FulfillmentRequest{
		PaymentReference: "pay_abc123",
		CustomerEmail:    "buyer@example.com",
		ShippingAddress:  "12 rue de la Paix, Paris",
		ShippingFee:      decimal.NewFromInt(10),
		Items: []LineItem{
			{VariantID: 1, SizeID: 2, ProductName: "Air Zoom", SizeValue: "42", UnitPrice: decimal.NewFromInt(120), Quantity: 1},
			{VariantID: 3, SizeID: 4, ProductName: "Court Classic", SizeValue: "43", UnitPrice: decimal.NewFromInt(90), Quantity: 2},
		},
	}
}

func TestFulfill(t *testing.T) {
	customer := &models.Customer{ID: 55, Email: "buyer@example.com"}
	order := &models.Order{ID: 101, OrderNumber: "SNK-000101-ABC123", UserID: 55, Status: models.OrderPending}

	t.Run("happy path decrements every line and notifies", func(t *testing.T) {
		service, m := newTestService()
		req := validRequest()

		m.payments.On("Verify", mock.Anything, "pay_abc123").Return(true, nil)
		m.customers.On("FindByEmail", mock.Anything, "buyer@example.com").Return(customer, nil)
		m.orders.On("CreateOrder", mock.Anything, 55, mock.Anything, req.ShippingAddress, mock.MatchedBy(func(total decimal.Decimal) bool {
			// 120 + 2*90 + 10 shipping
			return total.Equal(decimal.NewFromInt(310))
		})).Return(order, nil)
		m.ledger.On("Decrement", mock.Anything, 1, 2, 1, models.ReferenceOrder, &order.ID, (*string)(nil), (*int)(nil)).Return(&models.StockMovement{}, nil)
		m.ledger.On("Decrement", mock.Anything, 3, 4, 2, models.ReferenceOrder, &order.ID, (*string)(nil), (*int)(nil)).Return(&models.StockMovement{}, nil)
		m.notifier.On("SendOrderConfirmation", mock.Anything, mock.MatchedBy(func(msg mailer.OrderConfirmation) bool {
			return msg.OrderID == 101 && msg.Email == "buyer@example.com"
		})).Return(nil)

		result, err := service.Fulfill(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, 101, result.OrderID)
		assert.Equal(t, "SNK-000101-ABC123", result.OrderNumber)
		m.payments.AssertExpectations(t)
		m.orders.AssertExpectations(t)
		m.ledger.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})

	t.Run("a failed decrement does not fail the fulfillment", func(t *testing.T) {
		service, m := newTestService()
		req := validRequest()

		m.payments.On("Verify", mock.Anything, mock.Anything).Return(true, nil)
		m.customers.On("FindByEmail", mock.Anything, mock.Anything).Return(customer, nil)
		m.orders.On("CreateOrder", mock.Anything, 55, mock.Anything, mock.Anything, mock.Anything).Return(order, nil)
		m.ledger.On("Decrement", mock.Anything, 1, 2, 1, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&models.StockMovement{}, nil)
		m.ledger.On("Decrement", mock.Anything, 3, 4, 2, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, stock.ErrInsufficientStock)
		m.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil)

		result, err := service.Fulfill(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, 101, result.OrderID)
		m.ledger.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})

	t.Run("unconfirmed payment aborts before any side effect", func(t *testing.T) {
		service, m := newTestService()

		m.payments.On("Verify", mock.Anything, mock.Anything).Return(false, nil)

		result, err := service.Fulfill(context.Background(), validRequest())

		assert.ErrorIs(t, err, ErrPaymentNotConfirmed)
		assert.Nil(t, result)
		m.customers.AssertNotCalled(t, "FindByEmail")
		m.orders.AssertNotCalled(t, "CreateOrder")
		m.ledger.AssertNotCalled(t, "Decrement")
	})

	t.Run("payment provider outage aborts", func(t *testing.T) {
		service, m := newTestService()

		m.payments.On("Verify", mock.Anything, mock.Anything).Return(false, errors.New("connection refused"))

		_, err := service.Fulfill(context.Background(), validRequest())

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrPaymentNotConfirmed)
		m.orders.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("order creation failure is fatal", func(t *testing.T) {
		service, m := newTestService()

		m.payments.On("Verify", mock.Anything, mock.Anything).Return(true, nil)
		m.customers.On("FindByEmail", mock.Anything, mock.Anything).Return(customer, nil)
		m.orders.On("CreateOrder", mock.Anything, 55, mock.Anything, mock.Anything, mock.Anything).Return(nil, orders.ErrOrderNumberExhausted)

		result, err := service.Fulfill(context.Background(), validRequest())

		assert.ErrorIs(t, err, orders.ErrOrderNumberExhausted)
		assert.Nil(t, result)
		m.ledger.AssertNotCalled(t, "Decrement")
		m.notifier.AssertNotCalled(t, "SendOrderConfirmation")
	})

	t.Run("failed notification is queued for retry", func(t *testing.T) {
		service, m := newTestService()
		req := validRequest()

		m.payments.On("Verify", mock.Anything, mock.Anything).Return(true, nil)
		m.customers.On("FindByEmail", mock.Anything, mock.Anything).Return(customer, nil)
		m.orders.On("CreateOrder", mock.Anything, 55, mock.Anything, mock.Anything, mock.Anything).Return(order, nil)
		m.ledger.On("Decrement", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&models.StockMovement{}, nil)
		m.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
		m.queue.On("Enqueue", mock.Anything, mock.MatchedBy(func(msg mailer.OrderConfirmation) bool {
			return msg.OrderID == 101
		})).Return(nil)

		result, err := service.Fulfill(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, 101, result.OrderID)
		m.queue.AssertExpectations(t)
	})

	t.Run("notification failure without a queue is still non-fatal", func(t *testing.T) {
		_, m := newTestService()
		service := NewService(m.payments, m.customers, m.orders, m.ledger, m.notifier, nil, zap.NewNop())

		m.payments.On("Verify", mock.Anything, mock.Anything).Return(true, nil)
		m.customers.On("FindByEmail", mock.Anything, mock.Anything).Return(customer, nil)
		m.orders.On("CreateOrder", mock.Anything, 55, mock.Anything, mock.Anything, mock.Anything).Return(order, nil)
		m.ledger.On("Decrement", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&models.StockMovement{}, nil)
		m.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		result, err := service.Fulfill(context.Background(), validRequest())

		assert.NoError(t, err)
		assert.NotNil(t, result)
	})
}

func TestResolveCustomer(t *testing.T) {
	authID := "auth_789"
	customer := &models.Customer{ID: 55, Email: "buyer@example.com"}
	order := &models.Order{ID: 101, OrderNumber: "SNK-000101-ABC123"}

	run := func(t *testing.T, m *serviceMocks, service *Service, req FulfillmentRequest) {
		t.Helper()
		m.payments.On("Verify", mock.Anything, mock.Anything).Return(true, nil)
		m.orders.On("CreateOrder", mock.Anything, 55, mock.Anything, mock.Anything, mock.Anything).Return(order, nil)
		m.ledger.On("Decrement", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&models.StockMovement{}, nil)
		m.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil)

		_, err := service.Fulfill(context.Background(), req)
		assert.NoError(t, err)
	}

	t.Run("prefers the authenticated profile", func(t *testing.T) {
		service, m := newTestService()
		req := validRequest()
		req.CustomerAuthID = &authID

		m.customers.On("FindByAuthID", mock.Anything, authID).Return(customer, nil)

		run(t, m, service, req)
		m.customers.AssertNotCalled(t, "FindByEmail")
		m.customers.AssertNotCalled(t, "Create")
	})

	t.Run("falls back to the checkout email", func(t *testing.T) {
		service, m := newTestService()
		req := validRequest()
		req.CustomerAuthID = &authID

		m.customers.On("FindByAuthID", mock.Anything, authID).Return(nil, customers.ErrCustomerNotFound)
		m.customers.On("FindByEmail", mock.Anything, "buyer@example.com").Return(customer, nil)

		run(t, m, service, req)
		m.customers.AssertNotCalled(t, "Create")
	})

	t.Run("creates a guest profile when nothing matches", func(t *testing.T) {
		service, m := newTestService()

		m.customers.On("FindByEmail", mock.Anything, "buyer@example.com").Return(nil, customers.ErrCustomerNotFound)
		m.customers.On("Create", mock.Anything, "buyer@example.com").Return(customer, nil)

		run(t, m, service, validRequest())
		m.customers.AssertExpectations(t)
	})

	t.Run("lookup errors other than not-found are fatal", func(t *testing.T) {
		service, m := newTestService()

		m.payments.On("Verify", mock.Anything, mock.Anything).Return(true, nil)
		m.customers.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("db error"))

		_, err := service.Fulfill(context.Background(), validRequest())

		assert.Error(t, err)
		m.orders.AssertNotCalled(t, "CreateOrder")
	})
}
