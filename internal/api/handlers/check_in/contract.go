package check_in

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/execution"
	"github.com/m04kA/SMC-ReservationService/internal/service/execution/models"
)

type ExecutionService interface {
	CheckIn(ctx context.Context, req *execution.CheckRequest) (*models.CheckResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
