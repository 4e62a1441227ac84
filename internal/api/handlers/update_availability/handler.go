package update_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability/models"
)

const (
	msgInvalidManagerID   = "некорректный ID менеджера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "можно изменять только своё расписание"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/managers/{managerId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	managerID, err := handlers.PathInt64(r, "managerId")
	if err != nil || managerID <= 0 {
		h.logger.Warn("PUT /managers/{id}/availability - Invalid manager ID: %s", r.URL.Path)
		handlers.RespondBadRequest(w, msgInvalidManagerID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /managers/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.ManagerID = managerID

	week, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /managers/{id}/availability - Access denied: manager_id=%d, user_id=%d",
				managerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInternal):
			h.logger.Error("PUT /managers/{id}/availability - Failed: manager_id=%d, error=%v", managerID, err)
			handlers.RespondInternalError(w)

		default:
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("PUT /managers/{id}/availability - Schedule updated: manager_id=%d, days=%d", managerID, len(week.Days))
	handlers.RespondJSON(w, http.StatusOK, week)
}
