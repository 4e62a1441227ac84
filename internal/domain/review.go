package domain

import "time"

// AuthorRole side of the reservation that wrote a review
type AuthorRole string

const (
	AuthorCustomer AuthorRole = "customer"
	AuthorManager  AuthorRole = "manager"
)

// IsValid returns true for known author roles
func (r AuthorRole) IsValid() bool {
	return r == AuthorCustomer || r == AuthorManager
}

// Review left by one side of a completed reservation
type Review struct {
	ID            int64
	ReservationID int64
	AuthorID      int64
	AuthorRole    AuthorRole
	Rating        int
	Content       string
	CreatedAt     time.Time
}
