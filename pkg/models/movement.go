package models

import "time"

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

type ReferenceType string

const (
	ReferenceOrder   ReferenceType = "order"
	ReferenceManual  ReferenceType = "manual"
	ReferenceRestock ReferenceType = "restock"
)

// StockMovement is one immutable entry of the stock audit trail. Rows are
// never updated or deleted; summing QuantityChange per (variant, size)
// reconciles against the current StockLevel.
type StockMovement struct {
	ID             int           `json:"id" db:"id"`
	VariantID      int           `json:"variant_id" db:"variant_id"`
	SizeID         int           `json:"size_id" db:"size_id"`
	MovementType   MovementType  `json:"movement_type" db:"movement_type"`
	QuantityChange int           `json:"quantity_change" db:"quantity_change"`
	QuantityBefore int           `json:"quantity_before" db:"quantity_before"`
	QuantityAfter  int           `json:"quantity_after" db:"quantity_after"`
	ReferenceType  ReferenceType `json:"reference_type" db:"reference_type"`
	ReferenceID    *int          `json:"reference_id,omitempty" db:"reference_id"`
	Reason         *string       `json:"reason,omitempty" db:"reason"`
	ActorID        *int          `json:"actor_id,omitempty" db:"actor_id"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}
