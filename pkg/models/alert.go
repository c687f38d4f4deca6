package models

import "time"

type AlertType string

const (
	AlertLowStock    AlertType = "low_stock"
	AlertOutOfStock  AlertType = "out_of_stock"
	AlertOverstocked AlertType = "overstocked"
)

const (
	AlertStatusActive   = "active"
	AlertStatusResolved = "resolved"
)

// StockAlert flags a threshold breach for a (variant, size) pair. At most one
// active alert per (variant, size, type) may exist; resolution is a manual
// staff action, alerts are never deleted.
type StockAlert struct {
	ID              int        `json:"id" db:"id"`
	VariantID       int        `json:"variant_id" db:"variant_id"`
	SizeID          int        `json:"size_id" db:"size_id"`
	AlertType       AlertType  `json:"alert_type" db:"alert_type"`
	ThresholdValue  int        `json:"threshold_value" db:"threshold_value"`
	StockAtCreation int        `json:"stock_at_creation" db:"stock_at_creation"`
	Status          string     `json:"status" db:"status"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy      *int       `json:"resolved_by,omitempty" db:"resolved_by"`
}
