package availability

import "errors"

var (
	// ErrAccessDenied возвращается, когда пользователь меняет чужое расписание
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("internal error")
)
