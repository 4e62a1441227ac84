package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations"
)

const (
	msgInvalidTransition = "недопустимый переход статуса бронирования"
	msgInvalidState      = "операция недоступна в текущем состоянии бронирования"
	msgUpstreamFailure   = "внешний сервис недоступен, повторите попытку"
)

// StatusFor возвращает HTTP статус для ошибки доменной таксономии
// Ошибки вне таксономии дают 500
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNetworkFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отвечает на ошибку доменной таксономии
// Для ошибок внешних сервисов пользователю показывается их сообщение, если оно есть
func RespondDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})
		return
	}

	if message, ok := integrations.RemoteMessage(err); ok {
		RespondError(w, remoteStatus(err), message)
		return
	}

	switch StatusFor(err) {
	case http.StatusBadRequest:
		RespondBadRequest(w, err.Error())
	case http.StatusConflict:
		if errors.Is(err, domain.ErrInvalidTransition) {
			RespondConflict(w, msgInvalidTransition)
			return
		}
		RespondConflict(w, msgInvalidState)
	case http.StatusBadGateway:
		RespondError(w, http.StatusBadGateway, msgUpstreamFailure)
	default:
		RespondInternalError(w)
	}
}

// remoteStatus 502 для сбоев внешнего сервиса, 409 для отказов по бизнес-правилам
func remoteStatus(err error) int {
	if errors.Is(err, domain.ErrNetworkFailure) {
		return http.StatusBadGateway
	}
	return http.StatusConflict
}
