package models

import (
	"time"
)

// Request модели

// RejectRequest отказ менеджера от бронирования
type RejectRequest struct {
	Reason string `json:"reason"`
}

// EvidenceResponse результат загрузки подтверждающих файлов
type EvidenceResponse struct {
	Outcome     string   `json:"outcome"` // skipped, succeeded
	FileGroupID *int64   `json:"fileGroupId,omitempty"`
	URLs        []string `json:"urls"`
	FailedFiles []string `json:"failedFiles"`
}

// CheckResponse ответ на check-in/check-out
type CheckResponse struct {
	ReservationID int64            `json:"reservationId"`
	Status        string           `json:"status"`
	CheckID       *string          `json:"checkId,omitempty"`
	InTime        *time.Time       `json:"inTime,omitempty"`
	OutTime       *time.Time       `json:"outTime,omitempty"`
	Evidence      EvidenceResponse `json:"evidence"`
}

// EvidenceFailureResponse ответ при неудачной загрузке: клиент повторяет загрузку или пропускает ее
type EvidenceFailureResponse struct {
	Message     string   `json:"message"`
	FileGroupID *int64   `json:"fileGroupId,omitempty"`
	URLs        []string `json:"urls"`
	FailedFiles []string `json:"failedFiles"`
}
