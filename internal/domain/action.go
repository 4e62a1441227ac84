package domain

import "time"

// ActionKind button shown to the manager for a reservation
type ActionKind string

const (
	ActionNone     ActionKind = "none"
	ActionCheckIn  ActionKind = "check_in"
	ActionCheckOut ActionKind = "check_out"
	ActionComplete ActionKind = "complete"
)

// Action derived button state
type Action struct {
	Kind    ActionKind
	Label   string
	Enabled bool
}

// DeriveAction is a pure function of (status, inTime, outTime)
func DeriveAction(status ReservationStatus, inTime, outTime *time.Time) Action {
	switch {
	case inTime != nil && outTime != nil:
		return Action{Kind: ActionComplete, Label: "Complete", Enabled: false}
	case status == StatusConfirmed && inTime == nil:
		return Action{Kind: ActionCheckIn, Label: "Check in", Enabled: true}
	case (status == StatusConfirmed || status == StatusInProgress) && inTime != nil:
		return Action{Kind: ActionCheckOut, Label: "Check out", Enabled: true}
	default:
		return Action{Kind: ActionNone}
	}
}
