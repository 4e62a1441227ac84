package session_navigation

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/booking"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgUnknownKind          = "kind должен быть route, beforeunload или unload"
	msgForbidden            = "доступ запрещен"
)

type Handler struct {
	registry      SessionRegistry
	flowRoutes    []string
	unloadTimeout time.Duration
	logger        Logger
}

func NewHandler(registry SessionRegistry, flowRoutes []string, unloadTimeout time.Duration, logger Logger) *Handler {
	return &Handler{
		registry:      registry,
		flowRoutes:    flowRoutes,
		unloadTimeout: unloadTimeout,
		logger:        logger,
	}
}

// Handle POST /api/v1/booking-sessions/{reservationId}/navigation
// Пользователь никогда не остается на странице из-за неудачной отмены
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/navigation - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req NavigationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/navigation - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Kind != KindRoute && req.Kind != KindBeforeUnload && req.Kind != KindUnload {
		handlers.RespondBadRequest(w, msgUnknownKind)
		return
	}

	session, err := h.registry.Get(reservationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSessionNotFound):
			// Сессии нет: охранять нечего
			handlers.RespondJSON(w, http.StatusOK, NavigationResponse{Proceed: true, Target: req.Target})
		case errors.Is(err, booking.ErrAccessDenied):
			h.logger.Warn("POST /booking-sessions/{id}/navigation - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			handlers.RespondInternalError(w)
		}
		return
	}

	var navigated string
	guard := booking.NewGuard(
		session,
		booking.ConfirmerFunc(func(ctx context.Context, prompt string) bool { return req.Confirmed }),
		booking.NavigatorFunc(func(target string) { navigated = target }),
		h.logger,
		booking.WithFlowRoutes(h.flowRoutes...),
		booking.WithUnloadTimeout(h.unloadTimeout),
	)

	switch req.Kind {
	case KindBeforeUnload:
		handlers.RespondJSON(w, http.StatusOK, NavigationResponse{
			Proceed:           true,
			ShowUnloadWarning: guard.BeforeUnload(),
		})

	case KindUnload:
		// Браузер может оборвать соединение, отмена не должна прерываться вместе с запросом
		guard.OnUnload(context.WithoutCancel(r.Context()))
		h.logger.Info("POST /booking-sessions/{id}/navigation - Unload handled: reservation_id=%d", reservationID)
		handlers.RespondJSON(w, http.StatusOK, NavigationResponse{
			Proceed:   true,
			Abandoned: session.State() == booking.StateAbandoned,
		})

	default:
		decision := guard.BeforeNavigate(context.WithoutCancel(r.Context()), req.Target)
		resp := NavigationResponse{
			Proceed:            decision.Proceed,
			Target:             navigated,
			Abandoned:          decision.Abandoned,
			CompensationFailed: decision.CompensationErr != nil,
		}
		if decision.Prompted && !decision.Proceed {
			resp.Prompt = booking.LeavePrompt
		}

		h.logger.Info("POST /booking-sessions/{id}/navigation - reservation_id=%d, target=%s, proceed=%t, abandoned=%t",
			reservationID, req.Target, decision.Proceed, decision.Abandoned)
		handlers.RespondJSON(w, http.StatusOK, resp)
	}
}
