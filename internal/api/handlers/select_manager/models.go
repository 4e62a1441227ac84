package select_manager

// SelectManagerRequest HTTP request model
type SelectManagerRequest struct {
	ManagerID int64 `json:"managerId"`
}

// SelectManagerResponse HTTP response model
type SelectManagerResponse struct {
	ReservationID int64 `json:"reservationId"`
	ManagerID     int64 `json:"managerId"`
}
