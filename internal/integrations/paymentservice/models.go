package paymentservice

import "time"

// CaptureRequest запрос на списание оплаты за бронирование
type CaptureRequest struct {
	ReservationID  int64   `json:"reservation_id"`
	Method         string  `json:"method"`
	Amount         float64 `json:"amount"`
	IdempotencyKey string  `json:"-"`
}

// Payment результат списания
type Payment struct {
	ID         string    `json:"id"`
	Method     string    `json:"method"`
	Amount     float64   `json:"amount"`
	CapturedAt time.Time `json:"captured_at"`
}
