package confirm_session

// ConfirmSessionRequest HTTP request model
type ConfirmSessionRequest struct {
	PaymentMethod string  `json:"paymentMethod"`
	Amount        float64 `json:"amount"`
}
