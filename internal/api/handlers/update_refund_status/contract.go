package update_refund_status

import (
	"context"
)

type ReservationService interface {
	ApplyRefundStatus(ctx context.Context, reservationID int64, code string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
