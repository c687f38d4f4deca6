package models

import "time"

// StockLevel is the quantity on hand for one (variant, size) pair. Rows are
// provisioned together with the catalog and mutated only through the ledger.
type StockLevel struct {
	VariantID int       `json:"variant_id" db:"variant_id"`
	SizeID    int       `json:"size_id" db:"size_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (s *StockLevel) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.VariantID,
		ResourceType: "stock_level",
	}
}

// StockOverviewRow is the back-office projection of one stock level together
// with its alert and movement context.
type StockOverviewRow struct {
	VariantID        int        `json:"variant_id" db:"variant_id"`
	SizeID           int        `json:"size_id" db:"size_id"`
	Quantity         int        `json:"quantity" db:"quantity"`
	ActiveAlertCount int        `json:"active_alert_count" db:"active_alert_count"`
	LastMovementAt   *time.Time `json:"last_movement_at,omitempty" db:"last_movement_at"`
}
