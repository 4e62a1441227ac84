package request_match

import (
	"context"

	requestMatch "github.com/m04kA/SMC-ReservationService/internal/usecase/request_match"
)

type RequestMatchUseCase interface {
	Execute(ctx context.Context, req *requestMatch.Request) (*requestMatch.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
