package domain

// DayOfWeek day of the manager's weekly schedule
type DayOfWeek string

const (
	Monday    DayOfWeek = "MON"
	Tuesday   DayOfWeek = "TUE"
	Wednesday DayOfWeek = "WED"
	Thursday  DayOfWeek = "THU"
	Friday    DayOfWeek = "FRI"
	Saturday  DayOfWeek = "SAT"
	Sunday    DayOfWeek = "SUN"
)

// Week days in display order
var Week = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// IsValid returns true for one of the seven known days
func (d DayOfWeek) IsValid() bool {
	for _, day := range Week {
		if d == day {
			return true
		}
	}
	return false
}

// AvailabilitySlot one selected hour of a manager's week, Hour is "HH:00"
type AvailabilitySlot struct {
	DayOfWeek DayOfWeek
	Hour      string
}

// SlotState classification of one hour of a day
type SlotState string

const (
	SlotAvailable   SlotState = "available"
	SlotUnavailable SlotState = "unavailable"
	SlotBlocked     SlotState = "blocked"
)

// TimeRange merged run of consecutive selected hours, End is exclusive ("24:00" at most)
type TimeRange struct {
	Start string
	End   string
}

// Label returns the display form "HH:00–HH:00"
func (r TimeRange) Label() string {
	return r.Start + "–" + r.End
}

// DaySchedule availability of one day: merged ranges plus the state of every hour
type DaySchedule struct {
	Day    DayOfWeek
	Ranges []TimeRange
	Hours  [HoursPerDay]SlotState
}
