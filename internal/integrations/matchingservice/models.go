package matchingservice

import "time"

// Criteria параметры подбора менеджеров
type Criteria struct {
	ReservationID int64   `json:"reservation_id"`
	RequestDate   string  `json:"request_date"`
	StartTime     string  `json:"start_time"`
	Turnaround    int     `json:"turnaround"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

// MatchResponse ответ MatchingService
type MatchResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate подобранный менеджер
type Candidate struct {
	ManagerID             int64      `json:"manager_id"`
	ManagerName           string     `json:"manager_name"`
	AverageRating         float64    `json:"average_rating"`
	ReviewCount           int        `json:"review_count"`
	ReservationCount      int        `json:"reservation_count"`
	Bio                   string     `json:"bio"`
	RecentReservationDate *time.Time `json:"recent_reservation_date,omitempty"`
}

// ReleaseRequest запрос на снятие мягкой блокировки с менеджеров
type ReleaseRequest struct {
	ReservationID int64   `json:"reservation_id"`
	ManagerIDs    []int64 `json:"manager_ids"`
}
