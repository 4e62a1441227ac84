package check_in

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/handlers/evidence"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/execution"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "бронирование назначено другому менеджеру"
)

type Handler struct {
	service ExecutionService
	logger  Logger
}

func NewHandler(service ExecutionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/check-in
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/check-in - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	managerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, cleanup, err := evidence.ParseCheckRequest(r, reservationID, managerID)
	defer cleanup()
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/check-in - Invalid form: reservation_id=%d, error=%v", reservationID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	resp, err := h.service.CheckIn(r.Context(), req)
	if err != nil {
		if evidence.RespondError(w, err) {
			h.logger.Warn("POST /reservations/{id}/check-in - Evidence upload failed: reservation_id=%d, error=%v",
				reservationID, err)
			return
		}

		switch {
		case errors.Is(err, execution.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, execution.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/check-in - Access denied: reservation_id=%d, manager_id=%d",
				reservationID, managerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, execution.ErrInternal):
			h.logger.Error("POST /reservations/{id}/check-in - Failed: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)

		default:
			h.logger.Warn("POST /reservations/{id}/check-in - Rejected: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/check-in - Done: reservation_id=%d, manager_id=%d, evidence=%s",
		reservationID, managerID, resp.Evidence.Outcome)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
