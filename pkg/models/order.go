package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID              int             `json:"id" db:"id"`
	OrderNumber     string          `json:"order_number" db:"order_number"`
	UserID          int             `json:"user_id" db:"user_id"`
	Status          OrderStatus     `json:"status" db:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	ShippingAddress string          `json:"shipping_address" db:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	Items           []OrderItem     `json:"items,omitempty" db:"-"`
}

func (o *Order) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   o.ID,
		ResourceType: "order",
	}
}

// OrderItem snapshots the catalog data of one purchased line so later catalog
// edits cannot rewrite order history. Immutable once created.
type OrderItem struct {
	ID                   int             `json:"id" db:"id"`
	OrderID              int             `json:"order_id" db:"order_id"`
	VariantID            int             `json:"variant_id" db:"variant_id"`
	SizeID               int             `json:"size_id" db:"size_id"`
	ProductNameSnapshot  string          `json:"product_name" db:"product_name_snapshot"`
	VariantColorSnapshot string          `json:"variant_color" db:"variant_color_snapshot"`
	VariantSkuSnapshot   string          `json:"variant_sku" db:"variant_sku_snapshot"`
	SizeValueSnapshot    string          `json:"size_value" db:"size_value_snapshot"`
	UnitPrice            decimal.Decimal `json:"unit_price" db:"unit_price"`
	Quantity             int             `json:"quantity" db:"quantity"`
	LineTotal            decimal.Decimal `json:"line_total" db:"line_total"`
}
