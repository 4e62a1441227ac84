package integrations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// maxErrorBody ограничение на чтение тела ошибки
const maxErrorBody = 64 << 10

// RemoteError ошибка, которую вернул внешний сервис
type RemoteError struct {
	Service string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.Message)
}

// Unwrap 5xx считаются временной ошибкой, запрос можно повторить
func (e *RemoteError) Unwrap() error {
	if e.Status >= http.StatusInternalServerError {
		return domain.ErrNetworkFailure
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
}

// NewRemoteError читает тело ответа вида {"message": "..."}
func NewRemoteError(service string, resp *http.Response) *RemoteError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := http.StatusText(resp.StatusCode)
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
	} else if len(body) > 0 {
		message = string(body)
	}

	return &RemoteError{
		Service: service,
		Status:  resp.StatusCode,
		Message: message,
	}
}

// TransportError оборачивает ошибку сети в domain.ErrNetworkFailure
func TransportError(service string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrNetworkFailure, service, err)
}

// RemoteMessage сообщение внешнего сервиса, если ошибка пришла от него
func RemoteMessage(err error) (string, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Message, true
	}
	return "", false
}
