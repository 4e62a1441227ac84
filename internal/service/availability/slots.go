package availability

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Classify возвращает состояние часа дня
// Часы до начала обслуживания заблокированы всегда, остальные доступны только если выбраны
func Classify(hour int, selected bool) domain.SlotState {
	if hour < domain.FirstServiceHour {
		return domain.SlotBlocked
	}
	if selected {
		return domain.SlotAvailable
	}
	return domain.SlotUnavailable
}

// ParseHour разбирает час в формате "HH:00"
func ParseHour(value string) (int, error) {
	ts, err := types.NewTimeStringFromString(value)
	if err != nil {
		return 0, domain.NewValidationError("hour", fmt.Sprintf("%q must be HH:00", value))
	}

	minutes, err := ts.Minutes()
	if err != nil || minutes%60 != 0 {
		return 0, domain.NewValidationError("hour", fmt.Sprintf("%q must be a whole hour", value))
	}

	return minutes / 60, nil
}

// formatHour форматирует час как "HH:00", 24 дает "24:00"
func formatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// MergeToRanges склеивает выбранные часы в непрерывные диапазоны
// Дубликаты отбрасываются, порядок входа не важен, конец диапазона исключающий
func MergeToRanges(selected []string) ([]domain.TimeRange, error) {
	// Шаг 1: Разбираем и дедуплицируем часы
	seen := make(map[int]struct{}, len(selected))
	hours := make([]int, 0, len(selected))
	for _, value := range selected {
		hour, err := ParseHour(value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[hour]; ok {
			continue
		}
		seen[hour] = struct{}{}
		hours = append(hours, hour)
	}

	if len(hours) == 0 {
		return []domain.TimeRange{}, nil
	}

	sort.Ints(hours)

	// Шаг 2: Склеиваем соседние часы
	ranges := make([]domain.TimeRange, 0)
	start, last := hours[0], hours[0]
	for _, hour := range hours[1:] {
		if hour == last+1 {
			last = hour
			continue
		}
		ranges = append(ranges, domain.TimeRange{Start: formatHour(start), End: formatHour(last + 1)})
		start, last = hour, hour
	}
	ranges = append(ranges, domain.TimeRange{Start: formatHour(start), End: formatHour(last + 1)})

	return ranges, nil
}

// BuildWeek строит расписание на неделю MON..SUN
// Для каждого дня: склеенные диапазоны и классификация всех 24 часов
func BuildWeek(slots []domain.AvailabilitySlot) ([]domain.DaySchedule, error) {
	byDay := make(map[domain.DayOfWeek][]string, len(domain.Week))
	for _, slot := range slots {
		if !slot.DayOfWeek.IsValid() {
			return nil, domain.NewValidationError("dayOfWeek", fmt.Sprintf("unknown day %q", slot.DayOfWeek))
		}
		byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], slot.Hour)
	}

	week := make([]domain.DaySchedule, 0, len(domain.Week))
	for _, day := range domain.Week {
		ranges, err := MergeToRanges(byDay[day])
		if err != nil {
			return nil, err
		}

		selected := make(map[int]bool, len(byDay[day]))
		for _, value := range byDay[day] {
			hour, _ := ParseHour(value)
			selected[hour] = true
		}

		schedule := domain.DaySchedule{Day: day, Ranges: ranges}
		for hour := 0; hour < domain.HoursPerDay; hour++ {
			schedule.Hours[hour] = Classify(hour, selected[hour])
		}
		week = append(week, schedule)
	}

	return week, nil
}

// normalizeSlots валидирует и дедуплицирует слоты перед сохранением
// Заблокированные часы выбрать нельзя
func normalizeSlots(slots []domain.AvailabilitySlot) ([]domain.AvailabilitySlot, error) {
	type key struct {
		day  domain.DayOfWeek
		hour int
	}

	seen := make(map[key]struct{}, len(slots))
	result := make([]domain.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.DayOfWeek.IsValid() {
			return nil, domain.NewValidationError("dayOfWeek", fmt.Sprintf("unknown day %q", slot.DayOfWeek))
		}

		hour, err := ParseHour(slot.Hour)
		if err != nil {
			return nil, err
		}
		if Classify(hour, true) == domain.SlotBlocked {
			return nil, domain.NewValidationError("hour",
				fmt.Sprintf("%s is outside service hours", formatHour(hour)))
		}

		k := key{day: slot.DayOfWeek, hour: hour}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, domain.AvailabilitySlot{DayOfWeek: slot.DayOfWeek, Hour: formatHour(hour)})
	}

	return result, nil
}
