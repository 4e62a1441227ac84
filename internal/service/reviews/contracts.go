package reviews

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReviewRepository интерфейс репозитория отзывов
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ExistsByRole(ctx context.Context, reservationID int64, role domain.AuthorRole) (bool, error)
	ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Review, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
