package container

import (
	"database/sql"

	"github.com/Glenne01/sneakers-sub000/internal/alerts"
	auditLogRepo "github.com/Glenne01/sneakers-sub000/internal/auditlog"
	"github.com/Glenne01/sneakers-sub000/internal/config"
	"github.com/Glenne01/sneakers-sub000/internal/customers"
	"github.com/Glenne01/sneakers-sub000/internal/fulfillment"
	"github.com/Glenne01/sneakers-sub000/internal/integrations/mailer"
	"github.com/Glenne01/sneakers-sub000/internal/integrations/payments"
	"github.com/Glenne01/sneakers-sub000/internal/orders"
	"github.com/Glenne01/sneakers-sub000/internal/outbox"
	"github.com/Glenne01/sneakers-sub000/internal/repository"
	"github.com/Glenne01/sneakers-sub000/internal/staff"
	"github.com/Glenne01/sneakers-sub000/internal/stock"
	"github.com/Glenne01/sneakers-sub000/pkg/auditlog"
	"github.com/Glenne01/sneakers-sub000/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository         *repository.Repository
	AuditLog           *auditlog.Auditlog
	Ledger             *stock.Ledger
	AlertEngine        *alerts.Engine
	OrderRepository    *orders.OrderRepository
	Outbox             *outbox.NotificationOutbox
	TokenManager       *security.TokenManager
	LoginHandler       *security.LoginHandler
	StockHandler       *stock.StockHandler
	AlertHandler       *alerts.AlertHandler
	OrderHandler       *orders.OrderHandler
	FulfillmentHandler *fulfillment.FulfillmentHandler
}

func NewAppContainer(db *sql.DB, cfg *config.Config, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo, log)

	alertRepo := alerts.NewRepository(repo)
	alertEngine := alerts.NewEngine(alertRepo, cfg.Alerts, log)

	stockRepo := stock.NewRepository(repo)
	ledger := stock.NewLedger(db, stockRepo, alertEngine, log)

	orderRepo := orders.NewRepository(repo, cfg.Orders.NumberPrefix, cfg.Orders.NumberMaxAttempts)
	customerRepo := customers.NewRepository(repo)

	paymentsClient := payments.NewClient(cfg.Payments)
	mailerClient := mailer.NewClient(cfg.Notifier)

	// Fulfillment works without the retry queue; a missing Redis only costs
	// notification retries.
	var queue fulfillment.NotificationQueue
	notificationOutbox, err := outbox.NewNotificationOutbox(cfg.Redis, mailerClient, log)
	if err != nil {
		log.Warn("notification retry queue disabled", zap.Error(err))
	} else {
		queue = notificationOutbox
	}

	fulfillService := fulfillment.NewService(paymentsClient, customerRepo, orderRepo, ledger, mailerClient, queue, log)

	tokens := security.NewTokenManager(cfg.Auth)
	staffRepo := staff.NewRepository(repo)

	return &Container{
		Repository:         repo,
		AuditLog:           auditLog,
		Ledger:             ledger,
		AlertEngine:        alertEngine,
		OrderRepository:    orderRepo,
		Outbox:             notificationOutbox,
		TokenManager:       tokens,
		LoginHandler:       security.NewLoginHandler(staffRepo, tokens, log),
		StockHandler:       stock.NewStockHandler(ledger, auditLog),
		AlertHandler:       alerts.NewAlertHandler(alertEngine),
		OrderHandler:       orders.NewOrderHandler(orderRepo, auditLog, auditRepo),
		FulfillmentHandler: fulfillment.NewFulfillmentHandler(fulfillService),
	}
}
