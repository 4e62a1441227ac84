package update_refund_status

// UpdateRefundStatusRequest HTTP request model
type UpdateRefundStatusRequest struct {
	Status string `json:"status"` // REFUND_PROCESSING, REFUND_COMPLETED, REFUND_REJECTED
}
