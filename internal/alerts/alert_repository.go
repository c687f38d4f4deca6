package alerts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Glenne01/sneakers-sub000/internal/repository"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrAlertNotFound        = errors.New("alert not found")
	ErrAlertAlreadyResolved = errors.New("alert already resolved")
)

type AlertRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AlertRepository {
	return &AlertRepository{repository: r}
}

// HasActiveAlert reports whether an active alert of the given type already
// exists for the (variant, size) pair. Callers pass the transaction that
// performs the stock mutation so the check and the insert share one commit.
func (r *AlertRepository) HasActiveAlert(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID int, alertType models.AlertType) (bool, error) {
	var id int
	query := tx.Select("id").
		From("stock_alerts").
		Where(goqu.Ex{
			"variant_id": variantID,
			"size_id":    sizeID,
			"alert_type": alertType,
			"status":     models.AlertStatusActive,
		})

	found, err := query.Executor().ScanValContext(ctx, &id)
	if err != nil {
		return false, fmt.Errorf("failed to check active alert: %w", err)
	}

	return found, nil
}

func (r *AlertRepository) InsertAlert(ctx context.Context, tx *goqu.TxDatabase, alert *models.StockAlert) error {
	query := tx.Insert("stock_alerts").
		Rows(goqu.Record{
			"variant_id":        alert.VariantID,
			"size_id":           alert.SizeID,
			"alert_type":        alert.AlertType,
			"threshold_value":   alert.ThresholdValue,
			"stock_at_creation": alert.StockAtCreation,
			"status":            models.AlertStatusActive,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStructContext(ctx, alert); err != nil {
		return fmt.Errorf("failed to insert stock alert: %w", err)
	}
	alert.Status = models.AlertStatusActive

	return nil
}

func (r *AlertRepository) GetAlert(ctx context.Context, alertID int) (*models.StockAlert, error) {
	var alert models.StockAlert
	query := r.repository.GoquDBWrapper.
		From("stock_alerts").
		Where(goqu.Ex{"id": alertID})

	found, err := query.Executor().ScanStructContext(ctx, &alert)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	if !found {
		return nil, ErrAlertNotFound
	}

	return &alert, nil
}

// ResolveAlert marks an active alert resolved. The guarded update keeps
// resolved_at stable when two staff members race on the same alert. A nil
// resolvedBy stores NULL, not an actor id of zero.
func (r *AlertRepository) ResolveAlert(ctx context.Context, alertID int, resolvedBy *int) (*models.StockAlert, error) {
	query := r.repository.GoquDBWrapper.Update("stock_alerts").
		Set(goqu.Record{
			"status":      models.AlertStatusResolved,
			"resolved_at": goqu.L("NOW()"),
			"resolved_by": resolvedBy,
		}).
		Where(goqu.Ex{
			"id":     alertID,
			"status": models.AlertStatusActive,
		})

	result, err := query.Executor().ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve alert: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected for alert %d: %w", alertID, err)
	}

	if affected == 0 {
		if _, err := r.GetAlert(ctx, alertID); err != nil {
			return nil, err
		}
		return nil, ErrAlertAlreadyResolved
	}

	return r.GetAlert(ctx, alertID)
}

// ListAlerts returns alerts filtered by status; an empty status returns all.
func (r *AlertRepository) ListAlerts(ctx context.Context, status string) ([]models.StockAlert, error) {
	query := r.repository.GoquDBWrapper.
		From("stock_alerts").
		Order(goqu.I("created_at").Desc())

	if status != "" {
		query = query.Where(goqu.Ex{"status": status})
	}

	var alertList []models.StockAlert
	if err := query.Executor().ScanStructsContext(ctx, &alertList); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing SQL statement for alerts: %w", err)
	}

	return alertList, nil
}
