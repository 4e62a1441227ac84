package request_match

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrNoManagersMatched возвращается, когда подбор не нашел ни одного менеджера
	ErrNoManagersMatched = fmt.Errorf("%w: request_match: no managers matched", domain.ErrInvalidState)

	// ErrDateInPast возвращается, когда окно обслуживания уже началось
	ErrDateInPast = errors.New("request_match: service window is in the past")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_match: internal error")
)
