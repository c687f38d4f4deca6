package fulfillment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrValidation = errors.New("invalid fulfillment request")

// LineItem is one purchased (variant, size) position as sent by the checkout
// surface. The catalog snapshot fields travel with the payload so the order
// history stays correct even if the catalog changes afterwards.
type LineItem struct {
	VariantID    int             `json:"variant_id"`
	SizeID       int             `json:"size_id"`
	ProductName  string          `json:"product_name"`
	VariantColor string          `json:"variant_color"`
	VariantSku   string          `json:"variant_sku"`
	SizeValue    string          `json:"size_value"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
}

// FulfillmentRequest is the confirmed-payment event that triggers order
// creation. The payment reference is opaque; only the payment provider can
// interpret it.
type FulfillmentRequest struct {
	PaymentReference string          `json:"payment_reference"`
	Items            []LineItem      `json:"items"`
	ShippingAddress  string          `json:"shipping_address"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	CustomerEmail    string          `json:"customer_email"`
	CustomerAuthID   *string         `json:"customer_auth_id,omitempty"`
}

// Validate checks the payload before any side effect is performed.
func (r *FulfillmentRequest) Validate() error {
	if strings.TrimSpace(r.PaymentReference) == "" {
		return fmt.Errorf("%w: payment_reference is required", ErrValidation)
	}
	if strings.TrimSpace(r.CustomerEmail) == "" || !strings.Contains(r.CustomerEmail, "@") {
		return fmt.Errorf("%w: customer_email is required", ErrValidation)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrValidation)
	}
	if r.ShippingFee.IsNegative() {
		return fmt.Errorf("%w: shipping_fee cannot be negative", ErrValidation)
	}

	for i, item := range r.Items {
		if item.VariantID <= 0 || item.SizeID <= 0 {
			return fmt.Errorf("%w: item %d has an invalid variant or size", ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d must have a positive quantity", ErrValidation, i)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %d has a negative unit price", ErrValidation, i)
		}
	}

	return nil
}

// Total is the order amount: the sum of line totals plus the shipping fee
// captured at checkout.
func (r *FulfillmentRequest) Total() decimal.Decimal {
	total := r.ShippingFee
	for _, item := range r.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
