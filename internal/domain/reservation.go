package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ExtraService optional add-on ordered together with the main service
type ExtraService struct {
	ID      int64
	Name    string
	Price   float64
	Minutes int
}

// Reservation represents a home-service reservation
type Reservation struct {
	ID         int64
	CustomerID int64
	Status     ReservationStatus

	// Окно обслуживания: RequestDate + StartTime, длительность Turnaround часов
	RequestDate time.Time
	StartTime   types.TimeString
	Turnaround  int

	// Заполняется только после подтверждения (см. ReservationStatus.HasSelectedManager)
	SelectedManagerID *int64

	Price         float64
	ExtraServices []ExtraService
	PaymentMethod *string
	PaymentPrice  *float64

	RoadAddress   string
	DetailAddress string
	Latitude      float64
	Longitude     float64

	CheckID   *string
	InTime    *time.Time
	InFileID  *int64
	OutTime   *time.Time
	OutFileID *int64

	CancelReason *string
	RejectReason *string

	// Срок жизни фазы подбора; после него незавершенное бронирование отменяется сервером
	MatchingExpiresAt *time.Time

	RequestedAt  time.Time
	TerminatedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartAt returns the start of the service window
func (r *Reservation) StartAt() (time.Time, error) {
	return r.StartTime.On(r.RequestDate)
}

// EndAt returns StartAt + Turnaround hours
func (r *Reservation) EndAt() (time.Time, error) {
	start, err := r.StartAt()
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(r.Turnaround) * time.Hour), nil
}

// TotalPrice returns the base price plus all extra services
func (r *Reservation) TotalPrice() float64 {
	total := r.Price
	for _, extra := range r.ExtraServices {
		total += extra.Price
	}
	return total
}

// IsMatching returns true while the reservation is in the provisional matching phase
func (r *Reservation) IsMatching() bool {
	return r.Status == StatusRequested
}

// CheckTransition returns a *TransitionError if the reservation cannot move to the given status
func (r *Reservation) CheckTransition(to ReservationStatus) error {
	if !CanTransition(r.Status, to) {
		return &TransitionError{From: r.Status, To: to}
	}
	return nil
}

// IsParty returns true if the user is the customer or the selected manager
func (r *Reservation) IsParty(userID int64) bool {
	if r.CustomerID == userID {
		return true
	}
	return r.SelectedManagerID != nil && *r.SelectedManagerID == userID
}

// Validate checks the cross-field invariants of a reservation
func (r *Reservation) Validate() error {
	if _, ok := ParseStatus(string(r.Status)); !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidState, r.Status)
	}

	if r.Status.HasSelectedManager() != (r.SelectedManagerID != nil) {
		return fmt.Errorf("%w: selected manager must be set iff status is confirmed or later, status=%s",
			ErrInvalidState, r.Status)
	}

	if r.OutTime != nil && r.InTime == nil {
		return fmt.Errorf("%w: check-out without check-in", ErrInvalidState)
	}

	return nil
}
