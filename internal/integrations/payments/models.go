package payments

// paymentStatusResponse is the provider's view of one checkout session.
type paymentStatusResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

const statusConfirmed = "confirmed"
