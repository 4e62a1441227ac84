package domain

// Confirmation customer's choice of manager and payment for a matched reservation
type Confirmation struct {
	ReservationID  int64
	CustomerID     int64
	ManagerID      int64
	PaymentMethod  string
	Amount         float64
	IdempotencyKey string
}
