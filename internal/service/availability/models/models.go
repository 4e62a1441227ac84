package models

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// UpdateRequest запрос на замену недельного расписания менеджера
type UpdateRequest struct {
	UserID    int64         `json:"-"`
	ManagerID int64         `json:"-"`
	Slots     []SlotRequest `json:"slots"`
}

// SlotRequest выбранный час дня
type SlotRequest struct {
	DayOfWeek string `json:"dayOfWeek"` // MON..SUN
	Hour      string `json:"hour"`      // HH:00
}

// Response модели

// WeekResponse недельное расписание менеджера
type WeekResponse struct {
	ManagerID int64         `json:"managerId"`
	Days      []DayResponse `json:"days"`
}

// DayResponse расписание одного дня
type DayResponse struct {
	DayOfWeek string          `json:"dayOfWeek"`
	Ranges    []RangeResponse `json:"ranges"`
	Hours     []HourResponse  `json:"hours"`
}

// RangeResponse склеенный диапазон часов
type RangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// HourResponse состояние одного часа
type HourResponse struct {
	Hour  string `json:"hour"`
	State string `json:"state"` // available, unavailable, blocked
}

// ToDomainSlots преобразует запрос в доменные слоты
func (r *UpdateRequest) ToDomainSlots() []domain.AvailabilitySlot {
	slots := make([]domain.AvailabilitySlot, 0, len(r.Slots))
	for _, s := range r.Slots {
		slots = append(slots, domain.AvailabilitySlot{
			DayOfWeek: domain.DayOfWeek(s.DayOfWeek),
			Hour:      s.Hour,
		})
	}
	return slots
}

// FromDomainWeek преобразует недельное расписание в ответ
func FromDomainWeek(managerID int64, week []domain.DaySchedule) *WeekResponse {
	days := make([]DayResponse, 0, len(week))
	for _, day := range week {
		ranges := make([]RangeResponse, 0, len(day.Ranges))
		for _, r := range day.Ranges {
			ranges = append(ranges, RangeResponse{Start: r.Start, End: r.End, Label: r.Label()})
		}

		hours := make([]HourResponse, 0, len(day.Hours))
		for hour, state := range day.Hours {
			hours = append(hours, HourResponse{
				Hour:  formatHour(hour),
				State: string(state),
			})
		}

		days = append(days, DayResponse{
			DayOfWeek: string(day.Day),
			Ranges:    ranges,
			Hours:     hours,
		})
	}

	return &WeekResponse{ManagerID: managerID, Days: days}
}

func formatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
