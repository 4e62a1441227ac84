package execution

import (
	"context"
	"io"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Reservation, error)
	GetCandidates(ctx context.Context, reservationID int64) ([]domain.Candidate, error)
	Confirm(ctx context.Context, id int64, params reservationRepo.ConfirmParams) error
	Reject(ctx context.Context, id int64, reason string) error
	CheckIn(ctx context.Context, id int64, checkID string, inTime time.Time, fileID *int64) error
	CheckOut(ctx context.Context, id int64, outTime time.Time, fileID *int64) error
}

// FileClient интерфейс клиента файлового хранилища
type FileClient interface {
	UploadFile(ctx context.Context, name, contentType string, content io.Reader) (string, error)
	CreateFileGroup(ctx context.Context, urls []string) (int64, error)
	UpdateFileGroup(ctx context.Context, groupID int64, urls []string) error
}

// MatchingClient интерфейс клиента MatchingService
type MatchingClient interface {
	ReleaseHolds(ctx context.Context, reservationID int64, managerIDs []int64) error
}

// SessionDetacher закрывает сессию подбора клиента, когда менеджер сам принимает или отклоняет бронирование
type SessionDetacher interface {
	Detach(reservationID int64) error
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
