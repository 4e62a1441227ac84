package execution

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAccessDenied возвращается, когда менеджер не кандидат или не назначен на бронирование
	ErrAccessDenied = errors.New("access denied")

	// ErrStatusChanged статус изменился параллельным запросом
	ErrStatusChanged = fmt.Errorf("%w: reservation status changed concurrently", domain.ErrInvalidState)

	// ErrAlreadyCheckedIn повторный check-in
	ErrAlreadyCheckedIn = fmt.Errorf("%w: already checked in", domain.ErrInvalidState)

	// ErrNotCheckedIn check-out без check-in
	ErrNotCheckedIn = fmt.Errorf("%w: not checked in", domain.ErrInvalidState)

	// ErrAlreadyCheckedOut повторный check-out
	ErrAlreadyCheckedOut = fmt.Errorf("%w: already checked out", domain.ErrInvalidState)

	// ErrEvidenceUpload ни один файл не загружен или не удалось собрать группу файлов
	ErrEvidenceUpload = fmt.Errorf("%w: evidence upload failed", domain.ErrNetworkFailure)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("execution: internal error")
)

// EvidenceError неудачная загрузка подтверждающих файлов
// Содержит результат загрузки: успешно загруженные файлы можно передать при повторе
type EvidenceError struct {
	Result UploadResult
}

func (e *EvidenceError) Error() string {
	return fmt.Sprintf("%v: failed files %v", e.Result.Err, e.Result.FailedFiles)
}

func (e *EvidenceError) Unwrap() error {
	return e.Result.Err
}
