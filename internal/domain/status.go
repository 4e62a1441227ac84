package domain

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusRequested        ReservationStatus = "REQUESTED"
	StatusConfirmed        ReservationStatus = "CONFIRMED"
	StatusInProgress       ReservationStatus = "IN_PROGRESS"
	StatusCompleted        ReservationStatus = "COMPLETED"
	StatusPreCanceled      ReservationStatus = "PRE_CANCELED"
	StatusCanceled         ReservationStatus = "CANCELED"
	StatusRejected         ReservationStatus = "REJECTED"
	StatusRefundProcessing ReservationStatus = "REFUND_PROCESSING"
	StatusRefundCompleted  ReservationStatus = "REFUND_COMPLETED"
	StatusRefundRejected   ReservationStatus = "REFUND_REJECTED"
)

// AllStatuses closed set of known statuses in lifecycle order
var AllStatuses = []ReservationStatus{
	StatusRequested,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusPreCanceled,
	StatusCanceled,
	StatusRejected,
	StatusRefundProcessing,
	StatusRefundCompleted,
	StatusRefundRejected,
}

// transitions legal edges of the reservation state machine
// Статусы без исходящих рёбер терминальные
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusRequested:        {StatusConfirmed, StatusRejected, StatusPreCanceled, StatusCanceled},
	StatusConfirmed:        {StatusInProgress, StatusPreCanceled, StatusCanceled},
	StatusInProgress:       {StatusCompleted},
	StatusCompleted:        {StatusRefundProcessing},
	StatusRefundProcessing: {StatusRefundCompleted, StatusRefundRejected},
}

// ParseStatus converts a raw code into a known status
func ParseStatus(code string) (ReservationStatus, bool) {
	s := ReservationStatus(code)
	for _, known := range AllStatuses {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// CanTransition reports whether from -> to is a legal edge
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition leaves the status
func (s ReservationStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// HasSelectedManager returns true for statuses in which a manager must be assigned
func (s ReservationStatus) HasSelectedManager() bool {
	switch s {
	case StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusRefundProcessing, StatusRefundCompleted, StatusRefundRejected:
		return true
	default:
		return false
	}
}

// IsRefund returns true for the externally driven refund statuses
func (s ReservationStatus) IsRefund() bool {
	return s == StatusRefundProcessing || s == StatusRefundCompleted || s == StatusRefundRejected
}

// Tone two-tone color classes used by the web client badges
type Tone struct {
	Background string
	Text       string
}

// StatusInfo display metadata of a status code
// Known=false means the code is outside the closed set; Label is then "Unknown"
type StatusInfo struct {
	Code  string
	Known bool
	Label string
	Tone  Tone
}

var defaultTone = Tone{Background: "bg-gray-100", Text: "text-gray-500"}

var statusInfo = map[ReservationStatus]StatusInfo{
	StatusRequested:        {Label: "Requested", Tone: Tone{Background: "bg-yellow-100", Text: "text-yellow-700"}},
	StatusConfirmed:        {Label: "Confirmed", Tone: Tone{Background: "bg-blue-100", Text: "text-blue-600"}},
	StatusInProgress:       {Label: "In progress", Tone: Tone{Background: "bg-indigo-100", Text: "text-indigo-600"}},
	StatusCompleted:        {Label: "Completed", Tone: Tone{Background: "bg-green-100", Text: "text-green-600"}},
	StatusPreCanceled:      {Label: "Pre-canceled", Tone: Tone{Background: "bg-gray-100", Text: "text-gray-600"}},
	StatusCanceled:         {Label: "Canceled", Tone: Tone{Background: "bg-red-100", Text: "text-red-600"}},
	StatusRejected:         {Label: "Rejected", Tone: Tone{Background: "bg-red-100", Text: "text-red-700"}},
	StatusRefundProcessing: {Label: "Refund processing", Tone: Tone{Background: "bg-orange-100", Text: "text-orange-600"}},
	StatusRefundCompleted:  {Label: "Refund completed", Tone: Tone{Background: "bg-purple-100", Text: "text-purple-600"}},
	StatusRefundRejected:   {Label: "Refund rejected", Tone: Tone{Background: "bg-pink-100", Text: "text-pink-600"}},
}

// Describe returns display metadata for any code, known or not. It never panics.
func Describe(code string) StatusInfo {
	status, ok := ParseStatus(code)
	if !ok {
		return StatusInfo{Code: code, Known: false, Label: "Unknown", Tone: defaultTone}
	}
	info := statusInfo[status]
	info.Code = code
	info.Known = true
	return info
}
