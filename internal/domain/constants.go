package domain

import "time"

// Review constraints
const (
	MinReviewRating        = 1
	MaxReviewRating        = 5
	MinReviewContentLength = 1
	MaxReviewContentLength = 600
)

// Reservation constraints
const (
	MinTurnaroundHours    = 1
	MaxTurnaroundHours    = 12
	MaxReasonLength       = 500
	MaxEvidenceFiles      = 10
	MaxEvidenceFileSizeMB = 20
)

// Service hours: 00:00-07:00 are never selectable
const (
	HoursPerDay      = 24
	FirstServiceHour = 8
)

// Matching phase defaults
const (
	DefaultMatchingTTL = 15 * time.Minute
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
