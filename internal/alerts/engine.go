package alerts

import (
	"context"
	"fmt"

	"github.com/Glenne01/sneakers-sub000/internal/config"
	custom_error "github.com/Glenne01/sneakers-sub000/pkg/errors"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// AlertStore is the persistence surface the engine reads and writes through.
type AlertStore interface {
	HasActiveAlert(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID int, alertType models.AlertType) (bool, error)
	InsertAlert(ctx context.Context, tx *goqu.TxDatabase, alert *models.StockAlert) error
	ResolveAlert(ctx context.Context, alertID int, resolvedBy *int) (*models.StockAlert, error)
	ListAlerts(ctx context.Context, status string) ([]models.StockAlert, error)
}

// Engine evaluates the configured threshold table after every stock mutation
// and opens alerts for newly breached conditions. It never auto-resolves:
// closing an alert is an explicit staff action via ResolveAlert.
type Engine struct {
	repo       AlertStore
	thresholds config.AlertThresholds
	log        *zap.Logger
}

func NewEngine(repo AlertStore, thresholds config.AlertThresholds, log *zap.Logger) *Engine {
	return &Engine{
		repo:       repo,
		thresholds: thresholds,
		log:        log,
	}
}

type breach struct {
	alertType models.AlertType
	threshold int
}

// breaches returns every alert condition the given quantity currently holds.
// out_of_stock and low_stock overlap at zero on purpose: both are raised so
// staff can resolve them independently.
func (e *Engine) breaches(quantity int) []breach {
	var hits []breach

	if quantity == 0 {
		hits = append(hits, breach{alertType: models.AlertOutOfStock, threshold: 0})
	}
	if quantity <= e.thresholds.LowWatermark {
		hits = append(hits, breach{alertType: models.AlertLowStock, threshold: e.thresholds.LowWatermark})
	}
	if quantity >= e.thresholds.HighWatermark {
		hits = append(hits, breach{alertType: models.AlertOverstocked, threshold: e.thresholds.HighWatermark})
	}

	return hits
}

// Evaluate opens an alert for each breached condition that has no active
// alert yet. It runs inside the transaction that mutated the stock level, so
// a rolled-back mutation never leaves an alert behind. Returns the alerts
// created by this call.
func (e *Engine) Evaluate(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID, quantity int) ([]models.StockAlert, error) {
	var created []models.StockAlert

	for _, hit := range e.breaches(quantity) {
		exists, err := e.repo.HasActiveAlert(ctx, tx, variantID, sizeID, hit.alertType)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		alert := models.StockAlert{
			VariantID:       variantID,
			SizeID:          sizeID,
			AlertType:       hit.alertType,
			ThresholdValue:  hit.threshold,
			StockAtCreation: quantity,
		}

		if err := e.repo.InsertAlert(ctx, tx, &alert); err != nil {
			// A concurrent mutation may have opened the same alert between
			// the check and the insert; the partial unique index turns that
			// into a duplicate-key error we can safely skip.
			if custom_error.IsUniqueViolation(err) {
				e.log.Debug("active alert already exists",
					zap.Int("variant_id", variantID),
					zap.Int("size_id", sizeID),
					zap.String("alert_type", string(hit.alertType)))
				continue
			}
			return nil, fmt.Errorf("failed to open %s alert: %w", hit.alertType, err)
		}

		created = append(created, alert)
	}

	return created, nil
}

// Resolve closes an active alert on behalf of a staff member. resolvedBy is
// nil when the request carried no staff identity.
func (e *Engine) Resolve(ctx context.Context, alertID int, resolvedBy *int) (*models.StockAlert, error) {
	return e.repo.ResolveAlert(ctx, alertID, resolvedBy)
}

// List returns alerts for the back office, optionally filtered by status.
func (e *Engine) List(ctx context.Context, status string) ([]models.StockAlert, error) {
	return e.repo.ListAlerts(ctx, status)
}
