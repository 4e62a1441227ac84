package request_match

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/validation"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	if err := req.StartTime.Validate(); err != nil {
		return domain.NewValidationError("startTime", "must be HH:MM")
	}

	startHour, err := req.StartTime.Hour()
	if err != nil {
		return domain.NewValidationError("startTime", "must be HH:MM")
	}
	if startHour < domain.FirstServiceHour {
		return domain.NewValidationError("startTime",
			fmt.Sprintf("service hours start at %02d:00", domain.FirstServiceHour))
	}

	if req.Turnaround < domain.MinTurnaroundHours || req.Turnaround > domain.MaxTurnaroundHours {
		return domain.NewValidationError("turnaround",
			fmt.Sprintf("must be between %d and %d hours", domain.MinTurnaroundHours, domain.MaxTurnaroundHours))
	}

	minutes, _ := req.StartTime.Minutes()
	if minutes+req.Turnaround*60 > domain.HoursPerDay*60 {
		return domain.NewValidationError("turnaround", "service must end before midnight")
	}

	return nil
}

// validateWindow проверяет, что окно обслуживания еще не началось
func validateWindow(req *Request, now time.Time) error {
	start, err := req.StartTime.On(req.RequestDate)
	if err != nil {
		return domain.NewValidationError("startTime", "must be HH:MM")
	}

	if !start.After(now) {
		return fmt.Errorf("%w: start=%s, now=%s", ErrDateInPast,
			start.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	return nil
}
