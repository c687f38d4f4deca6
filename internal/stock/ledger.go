package stock

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Glenne01/sneakers-sub000/internal/repository"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

var (
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrReasonRequired    = errors.New("a reason is required for manual adjustments")
	ErrNegativeQuantity  = errors.New("stock quantity cannot be negative")
)

// StockStore is the persistence surface the ledger mutates through.
type StockStore interface {
	DecrementGuarded(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID, amount int) (int, int, error)
	IncrementQuantity(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID, amount int) (int, int, error)
	QuantityForUpdate(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID int) (int, error)
	UpdateQuantity(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID, newQuantity int) error
	InsertMovement(ctx context.Context, tx *goqu.TxDatabase, movement *models.StockMovement) error
	Overview(ctx context.Context, filter OverviewFilter) ([]models.StockOverviewRow, error)
	Movements(ctx context.Context, variantID, sizeID int, limit uint) ([]models.StockMovement, error)
}

// AlertEvaluator re-checks the threshold table after a mutation, inside the
// mutation's own transaction.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID, quantity int) ([]models.StockAlert, error)
}

// Ledger owns every write to stock_levels. Each public mutation commits the
// level update, its movement record and any opened alerts as one unit.
//
// Oversells are rejected, not clamped: a decrement below zero fails with
// ErrInsufficientStock and leaves the level untouched.
type Ledger struct {
	store  StockStore
	alerts AlertEvaluator
	log    *zap.Logger
	runTx  func(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error
}

func NewLedger(db *sql.DB, store StockStore, alertEngine AlertEvaluator, log *zap.Logger) *Ledger {
	return &Ledger{
		store:  store,
		alerts: alertEngine,
		log:    log,
		runTx: func(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(ctx, db, fn)
		},
	}
}

// Decrement removes amount units from a stock level, typically when an order
// line is fulfilled.
func (l *Ledger) Decrement(ctx context.Context, variantID, sizeID, amount int, refType models.ReferenceType, refID *int, reason *string, actorID *int) (*models.StockMovement, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}

	movement := &models.StockMovement{
		VariantID:      variantID,
		SizeID:         sizeID,
		MovementType:   models.MovementOut,
		QuantityChange: -amount,
		ReferenceType:  refType,
		ReferenceID:    refID,
		Reason:         reason,
		ActorID:        actorID,
	}

	err := l.runTx(ctx, func(tx *goqu.TxDatabase) error {
		before, after, err := l.store.DecrementGuarded(ctx, tx, variantID, sizeID, amount)
		if err != nil {
			return err
		}

		movement.QuantityBefore = before
		movement.QuantityAfter = after

		if err := l.store.InsertMovement(ctx, tx, movement); err != nil {
			return err
		}

		_, err = l.alerts.Evaluate(ctx, tx, variantID, sizeID, after)
		return err
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// Increment adds amount units to a stock level, typically for a restock.
func (l *Ledger) Increment(ctx context.Context, variantID, sizeID, amount int, refType models.ReferenceType, refID *int, reason *string, actorID *int) (*models.StockMovement, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}

	movement := &models.StockMovement{
		VariantID:      variantID,
		SizeID:         sizeID,
		MovementType:   models.MovementIn,
		QuantityChange: amount,
		ReferenceType:  refType,
		ReferenceID:    refID,
		Reason:         reason,
		ActorID:        actorID,
	}

	err := l.runTx(ctx, func(tx *goqu.TxDatabase) error {
		before, after, err := l.store.IncrementQuantity(ctx, tx, variantID, sizeID, amount)
		if err != nil {
			return err
		}

		movement.QuantityBefore = before
		movement.QuantityAfter = after

		if err := l.store.InsertMovement(ctx, tx, movement); err != nil {
			return err
		}

		_, err = l.alerts.Evaluate(ctx, tx, variantID, sizeID, after)
		return err
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// SetQuantity replaces the quantity outright on behalf of a staff member.
// The delta is recorded as an adjustment movement and may be negative.
func (l *Ledger) SetQuantity(ctx context.Context, variantID, sizeID, newQuantity int, reason string, actorID *int) (*models.StockMovement, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if newQuantity < 0 {
		return nil, ErrNegativeQuantity
	}

	movement := &models.StockMovement{
		VariantID:     variantID,
		SizeID:        sizeID,
		MovementType:  models.MovementAdjustment,
		ReferenceType: models.ReferenceManual,
		Reason:        &reason,
		ActorID:       actorID,
	}

	err := l.runTx(ctx, func(tx *goqu.TxDatabase) error {
		before, err := l.store.QuantityForUpdate(ctx, tx, variantID, sizeID)
		if err != nil {
			return err
		}

		if err := l.store.UpdateQuantity(ctx, tx, variantID, sizeID, newQuantity); err != nil {
			return err
		}

		movement.QuantityBefore = before
		movement.QuantityAfter = newQuantity
		movement.QuantityChange = newQuantity - before

		if err := l.store.InsertMovement(ctx, tx, movement); err != nil {
			return err
		}

		_, err = l.alerts.Evaluate(ctx, tx, variantID, sizeID, newQuantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// GetOverview returns the back-office stock projection.
func (l *Ledger) GetOverview(ctx context.Context, filter OverviewFilter) ([]models.StockOverviewRow, error) {
	return l.store.Overview(ctx, filter)
}

// GetMovements returns recent audit entries for one (variant, size) pair.
func (l *Ledger) GetMovements(ctx context.Context, variantID, sizeID int, limit uint) ([]models.StockMovement, error) {
	return l.store.Movements(ctx, variantID, sizeID, limit)
}
