package request_match

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	requestMatch "github.com/m04kA/SMC-ReservationService/internal/usecase/request_match"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNoManagersMatched  = "не найдено свободных менеджеров на выбранное время"
	msgDateInPast         = "выбранное время уже прошло"
)

type Handler struct {
	useCase RequestMatchUseCase
	logger  Logger
}

func NewHandler(useCase RequestMatchUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/match
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/match - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RequestMatchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/match - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations/match - Failed to parse request: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, requestMatch.ErrNoManagersMatched):
			h.logger.Warn("POST /reservations/match - No managers matched: user_id=%d", userID)
			handlers.RespondConflict(w, msgNoManagersMatched)

		case errors.Is(err, requestMatch.ErrDateInPast):
			h.logger.Warn("POST /reservations/match - Date in past: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, requestMatch.ErrInternal):
			h.logger.Error("POST /reservations/match - Failed to request match: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)

		default:
			h.logger.Warn("POST /reservations/match - Request failed: user_id=%d, error=%v", userID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("POST /reservations/match - Session opened: reservation_id=%d, candidates=%d",
		result.Reservation.ID, len(result.Candidates))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
