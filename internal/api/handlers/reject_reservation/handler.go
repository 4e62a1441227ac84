package reject_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/execution"
	executionModels "github.com/m04kA/SMC-ReservationService/internal/service/execution/models"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "менеджер не подобран для этого бронирования"
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

// Handle PATCH /api/v1/reservations/{reservationId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/reject - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	managerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req executionModels.RejectRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	res, err := h.service.Reject(r.Context(), reservationID, managerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, execution.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, execution.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/reject - Access denied: reservation_id=%d, manager_id=%d",
				reservationID, managerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, execution.ErrInternal):
			h.logger.Error("PATCH /reservations/{id}/reject - Failed: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)

		default:
			h.logger.Warn("PATCH /reservations/{id}/reject - Cannot reject: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/reject - Reservation rejected: reservation_id=%d, manager_id=%d",
		reservationID, managerID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(res, nil))
}
