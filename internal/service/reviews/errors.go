package reviews

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAccessDenied возвращается, когда автор не является стороной бронирования
	ErrAccessDenied = errors.New("access denied")

	// ErrReservationNotCompleted отзыв можно оставить только после завершения работ
	ErrReservationNotCompleted = fmt.Errorf("%w: reservation is not completed", domain.ErrInvalidState)

	// ErrReviewAlreadyExists эта сторона уже оставила отзыв
	ErrReviewAlreadyExists = fmt.Errorf("%w: review already exists", domain.ErrInvalidState)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reviews: internal error")
)
