package request_match

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/booking"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/matchingservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	SaveCandidates(ctx context.Context, reservationID int64, candidates []domain.Candidate) error
	Cancel(ctx context.Context, id int64, from, to domain.ReservationStatus, reason *string) error
}

// MatchingClient интерфейс клиента MatchingService
type MatchingClient interface {
	RequestMatch(ctx context.Context, criteria matchingservice.Criteria) ([]domain.Candidate, error)
	ReleaseHolds(ctx context.Context, reservationID int64, managerIDs []int64) error
}

// SessionOpener открывает сессию подбора
type SessionOpener interface {
	Open(res *domain.Reservation, candidates []domain.Candidate) (*booking.Session, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Recorder метрики переходов статуса
type Recorder interface {
	StatusTransition(from, to string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
