package availability

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписания менеджеров
type AvailabilityRepository interface {
	GetByManager(ctx context.Context, managerID int64) ([]domain.AvailabilitySlot, error)
	ReplaceForManager(ctx context.Context, managerID int64, slots []domain.AvailabilitySlot) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
