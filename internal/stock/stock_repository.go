package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/Glenne01/sneakers-sub000/internal/repository"
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var (
	ErrStockLevelNotFound = errors.New("no stock level provisioned for this variant and size")
	ErrInsufficientStock  = errors.New("insufficient stock for requested decrement")
)

type StockRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{repository: r}
}

// DecrementGuarded applies a conditional decrement in a single statement:
// the update succeeds only when the current quantity covers the amount, so
// concurrent orders for the same size can never drive the level negative.
// Returns the quantity before and after the decrement.
func (r *StockRepository) DecrementGuarded(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID, amount int) (int, int, error) {
	var after int
	query := tx.Update("stock_levels").
		Set(goqu.Record{
			"quantity":   goqu.L("quantity - ?", amount),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"variant_id": variantID, "size_id": sizeID}).
		Where(goqu.C("quantity").Gte(amount)).
		Returning("quantity")

	found, err := query.Executor().ScanValContext(ctx, &after)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decrement stock for variant %d size %d: %w", variantID, sizeID, err)
	}

	if !found {
		// Distinguish a missing stock row (catalog provisioning gap) from a
		// genuine shortage; both leave the level untouched.
		if _, err := r.QuantityForUpdate(ctx, tx, variantID, sizeID); err != nil {
			return 0, 0, err
		}
		return 0, 0, ErrInsufficientStock
	}

	return after + amount, after, nil
}

// IncrementQuantity adds amount to the stock level and returns the quantity
// before and after.
func (r *StockRepository) IncrementQuantity(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID, amount int) (int, int, error) {
	var after int
	query := tx.Update("stock_levels").
		Set(goqu.Record{
			"quantity":   goqu.L("quantity + ?", amount),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"variant_id": variantID, "size_id": sizeID}).
		Returning("quantity")

	found, err := query.Executor().ScanValContext(ctx, &after)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to increment stock for variant %d size %d: %w", variantID, sizeID, err)
	}

	if !found {
		return 0, 0, ErrStockLevelNotFound
	}

	return after - amount, after, nil
}

// QuantityForUpdate reads the current quantity holding a row lock for the
// remainder of the transaction. Used by SetQuantity so the read and the
// write cannot interleave with a concurrent mutation.
func (r *StockRepository) QuantityForUpdate(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID int) (int, error) {
	var quantity int
	query := tx.Select("quantity").
		From("stock_levels").
		Where(goqu.Ex{"variant_id": variantID, "size_id": sizeID}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanValContext(ctx, &quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to read stock level for variant %d size %d: %w", variantID, sizeID, err)
	}

	if !found {
		return 0, ErrStockLevelNotFound
	}

	return quantity, nil
}

func (r *StockRepository) UpdateQuantity(ctx context.Context, tx *goqu.TxDatabase, variantID, sizeID, newQuantity int) error {
	query := tx.Update("stock_levels").
		Set(goqu.Record{
			"quantity":   newQuantity,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"variant_id": variantID, "size_id": sizeID})

	result, err := query.Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to set stock quantity for variant %d size %d: %w", variantID, sizeID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrStockLevelNotFound
	}

	return nil
}

// InsertMovement appends one immutable entry to the stock audit trail within
// the same transaction that mutated the level.
func (r *StockRepository) InsertMovement(ctx context.Context, tx *goqu.TxDatabase, movement *models.StockMovement) error {
	query := tx.Insert("stock_movements").
		Rows(goqu.Record{
			"variant_id":      movement.VariantID,
			"size_id":         movement.SizeID,
			"movement_type":   movement.MovementType,
			"quantity_change": movement.QuantityChange,
			"quantity_before": movement.QuantityBefore,
			"quantity_after":  movement.QuantityAfter,
			"reference_type":  movement.ReferenceType,
			"reference_id":    movement.ReferenceID,
			"reason":          movement.Reason,
			"actor_id":        movement.ActorID,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStructContext(ctx, movement); err != nil {
		return fmt.Errorf("failed to insert stock movement: %w", err)
	}

	return nil
}

// OverviewFilter narrows the back-office stock projection.
type OverviewFilter struct {
	VariantID        *int
	OnlyActiveAlerts bool
}

const (
	activeAlertCountExpr = `(SELECT COUNT(*) FROM stock_alerts a
		WHERE a.variant_id = s.variant_id AND a.size_id = s.size_id AND a.status = 'active')`
	lastMovementExpr = `(SELECT MAX(m.created_at) FROM stock_movements m
		WHERE m.variant_id = s.variant_id AND m.size_id = s.size_id)`
)

// Overview joins stock levels with their active-alert counts and latest
// movement timestamps.
func (r *StockRepository) Overview(ctx context.Context, filter OverviewFilter) ([]models.StockOverviewRow, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("stock_levels").As("s")).
		Select(
			goqu.I("s.variant_id").As("variant_id"),
			goqu.I("s.size_id").As("size_id"),
			goqu.I("s.quantity").As("quantity"),
			goqu.L(activeAlertCountExpr).As("active_alert_count"),
			goqu.L(lastMovementExpr).As("last_movement_at"),
		).
		Order(goqu.I("s.variant_id").Asc(), goqu.I("s.size_id").Asc())

	if filter.VariantID != nil {
		query = query.Where(goqu.Ex{"s.variant_id": *filter.VariantID})
	}
	if filter.OnlyActiveAlerts {
		query = query.Where(goqu.L(activeAlertCountExpr + " > 0"))
	}

	var rows []models.StockOverviewRow
	if err := query.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock overview: %w", err)
	}

	return rows, nil
}

// Movements returns the newest audit entries for one (variant, size) pair.
func (r *StockRepository) Movements(ctx context.Context, variantID, sizeID int, limit uint) ([]models.StockMovement, error) {
	if limit == 0 {
		limit = 50
	}

	query := r.repository.GoquDBWrapper.
		From("stock_movements").
		Where(goqu.Ex{"variant_id": variantID, "size_id": sizeID}).
		Order(goqu.I("created_at").Desc()).
		Limit(limit)

	var movements []models.StockMovement
	if err := query.Executor().ScanStructsContext(ctx, &movements); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock movements: %w", err)
	}

	return movements, nil
}
