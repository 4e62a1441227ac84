package abandon_session

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/booking"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgCompensationFailed   = "бронирование закрыто, но отмену не удалось подтвердить: она будет повторена автоматически"
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

// Handle POST /api/v1/booking-sessions/{reservationId}/abandon
// Повторная отмена закрытой сессии отвечает 204: компенсация выполняется не более одного раза
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/abandon - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	session, err := h.registry.Get(reservationID, userID)
	if err == nil {
		// Компенсация доводится до конца даже если клиент закрыл соединение
		err = session.Abandon(context.WithoutCancel(r.Context()))
	}
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSessionNotFound):
			h.logger.Info("POST /booking-sessions/{id}/abandon - Nothing to abandon: reservation_id=%d", reservationID)
			handlers.RespondJSON(w, http.StatusNoContent, nil)

		case errors.Is(err, booking.ErrAccessDenied):
			h.logger.Warn("POST /booking-sessions/{id}/abandon - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrCompensationFailed):
			h.logger.Error("POST /booking-sessions/{id}/abandon - Compensation failed: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgCompensationFailed)

		default:
			h.logger.Warn("POST /booking-sessions/{id}/abandon - Abandon failed: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("POST /booking-sessions/{id}/abandon - Session abandoned: reservation_id=%d", reservationID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
