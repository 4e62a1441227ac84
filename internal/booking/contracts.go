package booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Finalizer подтверждает бронирование: назначает менеджера, переводит в CONFIRMED и списывает оплату
type Finalizer interface {
	Confirm(ctx context.Context, confirmation domain.Confirmation) (*domain.Reservation, error)
}

// Compensator компенсирующая отмена бронирования в фазе подбора
type Compensator interface {
	CancelBeforeConfirm(ctx context.Context, reservationID int64, candidateIDs []int64) error
}

// Recorder метрики сессий
type Recorder interface {
	SessionEvent(event string)
	Compensation(trigger string, err error)
}

// ReservationSource источник бронирований, застрявших в фазе подбора
type ReservationSource interface {
	ListExpiredMatching(ctx context.Context, now time.Time, limit uint64) ([]*domain.Reservation, error)
	GetCandidates(ctx context.Context, reservationID int64) ([]domain.Candidate, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
