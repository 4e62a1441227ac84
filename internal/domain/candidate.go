package domain

import "time"

// Candidate manager matched for a reservation during the matching phase
type Candidate struct {
	ManagerID             int64
	ManagerName           string
	AverageRating         float64
	ReviewCount           int
	ReservationCount      int
	Bio                   string
	RecentReservationDate *time.Time
}

// CandidateIDs returns the manager ids of the candidates in order
func CandidateIDs(candidates []Candidate) []int64 {
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ManagerID
	}
	return ids
}

// ContainsManager returns true if managerID is one of the candidates
func ContainsManager(candidates []Candidate, managerID int64) bool {
	for _, c := range candidates {
		if c.ManagerID == managerID {
			return true
		}
	}
	return false
}
