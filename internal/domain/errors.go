package domain

import (
	"errors"
	"fmt"
)

// Базовая таксономия ошибок жизненного цикла бронирования
// Ошибки пакетов оборачивают их через %w, хендлеры сопоставляют через errors.Is
var (
	// ErrInvalidTransition переход статуса не разрешён из текущего состояния
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidState не выполнены предусловия операции
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation ошибка валидации поля
	ErrValidation = errors.New("validation error")

	// ErrNetworkFailure временная ошибка внешнего сервиса, операцию можно повторить
	ErrNetworkFailure = errors.New("network failure")

	// ErrCompensationFailed компенсирующая отмена не дошла до сервера
	ErrCompensationFailed = errors.New("compensation failed")
)

// ValidationError ошибка валидации конкретного поля
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError создает ошибку валидации поля
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TransitionError недопустимый переход с указанием статусов
type TransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
