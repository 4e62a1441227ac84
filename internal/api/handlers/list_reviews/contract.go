package list_reviews

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reviews/models"
)

type ReviewService interface {
	ListReviews(ctx context.Context, reservationID, userID int64, role domain.Role) ([]*models.ReviewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
