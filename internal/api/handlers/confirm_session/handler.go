package confirm_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/booking"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgSessionNotFound      = "сессия бронирования не найдена"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
)

type Handler struct {
	registry SessionRegistry
	logger   Logger
}

func NewHandler(registry SessionRegistry, logger Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger,
	}
}

// Handle POST /api/v1/booking-sessions/{reservationId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/confirm - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ConfirmSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.registry.Get(reservationID, userID)
	if err != nil {
		h.respondSessionError(w, reservationID, userID, err)
		return
	}

	// Сессия остается открытой при ошибке, клиент может повторить подтверждение
	res, err := session.Confirm(r.Context(), req.PaymentMethod, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInternal):
			h.logger.Error("POST /booking-sessions/{id}/confirm - Failed to confirm: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)

		default:
			h.logger.Warn("POST /booking-sessions/{id}/confirm - Confirm failed: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("POST /booking-sessions/{id}/confirm - Reservation confirmed: reservation_id=%d, user_id=%d",
		reservationID, userID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(res, nil))
}

func (h *Handler) respondSessionError(w http.ResponseWriter, reservationID, userID int64, err error) {
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		h.logger.Warn("POST /booking-sessions/{id}/confirm - Session not found: reservation_id=%d", reservationID)
		handlers.RespondNotFound(w, msgSessionNotFound)
	case errors.Is(err, booking.ErrAccessDenied):
		h.logger.Warn("POST /booking-sessions/{id}/confirm - Access denied: reservation_id=%d, user_id=%d",
			reservationID, userID)
		handlers.RespondForbidden(w, msgForbidden)
	default:
		handlers.RespondInternalError(w)
	}
}
