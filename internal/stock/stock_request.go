package stock

// AdjustStockRequest is the manual-adjustment payload sent by back-office
// staff. The reason is mandatory; it ends up on the adjustment movement.
type AdjustStockRequest struct {
	VariantID   int    `json:"variant_id" binding:"required"`
	SizeID      int    `json:"size_id" binding:"required"`
	NewQuantity *int   `json:"new_quantity" binding:"required"`
	Reason      string `json:"reason"`
}

// RestockRequest adds received units to a stock level.
type RestockRequest struct {
	VariantID int     `json:"variant_id" binding:"required"`
	SizeID    int     `json:"size_id" binding:"required"`
	Amount    int     `json:"amount" binding:"required"`
	Reason    *string `json:"reason"`
}
