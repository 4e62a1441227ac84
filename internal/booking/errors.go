package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrSessionNotFound нет открытой сессии для бронирования
	ErrSessionNotFound = errors.New("booking: session not found")

	// ErrAccessDenied сессия принадлежит другому клиенту
	ErrAccessDenied = errors.New("booking: access denied")

	// ErrSessionAlreadyOpen для бронирования уже открыта сессия
	ErrSessionAlreadyOpen = fmt.Errorf("%w: booking session already open", domain.ErrInvalidState)

	// ErrNotMatching бронирование не находится в фазе подбора
	ErrNotMatching = fmt.Errorf("%w: reservation is not in matching phase", domain.ErrInvalidState)

	// ErrNoCandidates нечего удерживать: список кандидатов пуст
	ErrNoCandidates = fmt.Errorf("%w: no candidate managers", domain.ErrInvalidState)

	// ErrNoManagerSelected подтверждение без выбранного менеджера
	ErrNoManagerSelected = fmt.Errorf("%w: no manager selected", domain.ErrInvalidState)

	// ErrOperationInFlight подтверждение или отмена уже выполняются
	ErrOperationInFlight = fmt.Errorf("%w: confirm or abandon already in flight", domain.ErrInvalidState)

	// ErrSessionClosed сессия уже подтверждена или отменена
	ErrSessionClosed = fmt.Errorf("%w: booking session is closed", domain.ErrInvalidState)
)
