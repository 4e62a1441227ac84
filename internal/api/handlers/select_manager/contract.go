package select_manager

import (
	"github.com/m04kA/SMC-ReservationService/internal/booking"
)

type SessionRegistry interface {
	Get(reservationID, customerID int64) (*booking.Session, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
