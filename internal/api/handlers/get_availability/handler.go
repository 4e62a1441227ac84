package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

const msgInvalidManagerID = "некорректный ID менеджера"

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

// Handle GET /api/v1/managers/{managerId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	managerID, err := handlers.PathInt64(r, "managerId")
	if err != nil || managerID <= 0 {
		h.logger.Warn("GET /managers/{id}/availability - Invalid manager ID: %s", r.URL.Path)
		handlers.RespondBadRequest(w, msgInvalidManagerID)
		return
	}

	week, err := h.service.Get(r.Context(), managerID)
	if err != nil {
		h.logger.Error("GET /managers/{id}/availability - Failed: manager_id=%d, error=%v", managerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, week)
}
