package select_manager

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/booking"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgSessionNotFound      = "сессия бронирования не найдена"
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

// Handle POST /api/v1/booking-sessions/{reservationId}/select
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/select - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SelectManagerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/select - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.registry.Get(reservationID, userID)
	if err == nil {
		err = session.Select(req.ManagerID)
	}
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSessionNotFound):
			h.logger.Warn("POST /booking-sessions/{id}/select - Session not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, booking.ErrAccessDenied):
			h.logger.Warn("POST /booking-sessions/{id}/select - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Warn("POST /booking-sessions/{id}/select - Select failed: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("POST /booking-sessions/{id}/select - Manager selected: reservation_id=%d, manager_id=%d",
		reservationID, req.ManagerID)
	handlers.RespondJSON(w, http.StatusOK, SelectManagerResponse{
		ReservationID: reservationID,
		ManagerID:     req.ManagerID,
	})
}
