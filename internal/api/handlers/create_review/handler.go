package create_review

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reviews"
	"github.com/m04kA/SMC-ReservationService/internal/service/reviews/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "отзыв может оставить только участник бронирования"
	msgNotCompleted         = "отзыв можно оставить только после завершения работ"
	msgAlreadyExists        = "вы уже оставили отзыв на это бронирование"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/reviews
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/reviews - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/reviews - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ReservationID = reservationID
	req.AuthorID = userID

	review, err := h.service.CreateReview(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reviews.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/reviews - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reviews.ErrReservationNotCompleted):
			handlers.RespondConflict(w, msgNotCompleted)

		case errors.Is(err, reviews.ErrReviewAlreadyExists):
			handlers.RespondConflict(w, msgAlreadyExists)

		case errors.Is(err, reviews.ErrInternal):
			h.logger.Error("POST /reservations/{id}/reviews - Failed: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)

		default:
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/reviews - Review created: review_id=%d, reservation_id=%d, role=%s",
		review.ID, reservationID, review.AuthorRole)
	handlers.RespondJSON(w, http.StatusCreated, review)
}
