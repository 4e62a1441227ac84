package reservations

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/paymentservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Reservation, error)
	GetCandidates(ctx context.Context, reservationID int64) ([]domain.Candidate, error)
	Confirm(ctx context.Context, id int64, params reservationRepo.ConfirmParams) error
	Cancel(ctx context.Context, id int64, from, to domain.ReservationStatus, reason *string) error
	UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error
}

// MatchingClient интерфейс клиента MatchingService
type MatchingClient interface {
	ReleaseHolds(ctx context.Context, reservationID int64, managerIDs []int64) error
}

// PaymentClient интерфейс клиента PaymentService
type PaymentClient interface {
	Capture(ctx context.Context, capture paymentservice.CaptureRequest) (*paymentservice.Payment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Recorder метрики переходов статуса
type Recorder interface {
	StatusTransition(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
