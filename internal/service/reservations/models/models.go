package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// CancelRequest запрос на отмену бронирования клиентом
type CancelRequest struct {
	UserID int64  `json:"-"`
	Reason string `json:"reason"`
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID                int64   `json:"id"`
	CustomerID        int64   `json:"customerId"`
	SelectedManagerID *int64  `json:"selectedManagerId,omitempty"`
	RequestDate       string  `json:"requestDate"` // "2026-10-18"
	StartTime         string  `json:"startTime"`   // "10:00"
	EndTime           string  `json:"endTime,omitempty"`
	Turnaround        int     `json:"turnaround"`
	Price             float64 `json:"price"`
	TotalPrice        float64 `json:"totalPrice"`

	ExtraServices []ExtraServiceResponse `json:"extraServices"`
	PaymentMethod *string                `json:"paymentMethod,omitempty"`
	PaymentPrice  *float64               `json:"paymentPrice,omitempty"`

	RoadAddress   string  `json:"roadAddress"`
	DetailAddress string  `json:"detailAddress"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`

	Status StatusResponse `json:"status"`
	Action ActionResponse `json:"action"`

	CheckID   *string    `json:"checkId,omitempty"`
	InTime    *time.Time `json:"inTime,omitempty"`
	InFileID  *int64     `json:"inFileId,omitempty"`
	OutTime   *time.Time `json:"outTime,omitempty"`
	OutFileID *int64     `json:"outFileId,omitempty"`

	CancelReason      *string    `json:"cancelReason,omitempty"`
	RejectReason      *string    `json:"rejectReason,omitempty"`
	MatchingExpiresAt *time.Time `json:"matchingExpiresAt,omitempty"`
	RequestedAt       time.Time  `json:"requestedAt"`
	TerminatedAt      *time.Time `json:"terminatedAt,omitempty"`

	Candidates []CandidateResponse `json:"candidates,omitempty"`
}

// ExtraServiceResponse дополнительная услуга
type ExtraServiceResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Minutes int     `json:"minutes"`
}

// StatusResponse статус с метаданными отображения
type StatusResponse struct {
	Code       string `json:"code"`
	Known      bool   `json:"known"`
	Label      string `json:"label"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// ActionResponse кнопка действия менеджера
type ActionResponse struct {
	Kind    string `json:"kind"`
	Label   string `json:"label,omitempty"`
	Enabled bool   `json:"enabled"`
}

// CandidateResponse подобранный менеджер
type CandidateResponse struct {
	ManagerID             int64   `json:"managerId"`
	ManagerName           string  `json:"managerName"`
	AverageRating         float64 `json:"averageRating"`
	ReviewCount           int     `json:"reviewCount"`
	ReservationCount      int     `json:"reservationCount"`
	Bio                   string  `json:"bio"`
	RecentReservationDate *string `json:"recentReservationDate,omitempty"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation, candidates []domain.Candidate) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                r.ID,
		CustomerID:        r.CustomerID,
		SelectedManagerID: r.SelectedManagerID,
		RequestDate:       r.RequestDate.Format(domain.DateFormat),
		StartTime:         r.StartTime.String(),
		Turnaround:        r.Turnaround,
		Price:             r.Price,
		TotalPrice:        r.TotalPrice(),
		ExtraServices:     make([]ExtraServiceResponse, 0, len(r.ExtraServices)),
		PaymentMethod:     r.PaymentMethod,
		PaymentPrice:      r.PaymentPrice,
		RoadAddress:       r.RoadAddress,
		DetailAddress:     r.DetailAddress,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		Status:            FromStatus(string(r.Status)),
		Action:            FromAction(domain.DeriveAction(r.Status, r.InTime, r.OutTime)),
		CheckID:           r.CheckID,
		InTime:            r.InTime,
		InFileID:          r.InFileID,
		OutTime:           r.OutTime,
		OutFileID:         r.OutFileID,
		CancelReason:      r.CancelReason,
		RejectReason:      r.RejectReason,
		MatchingExpiresAt: r.MatchingExpiresAt,
		RequestedAt:       r.RequestedAt,
		TerminatedAt:      r.TerminatedAt,
	}

	if end, err := r.EndAt(); err == nil {
		resp.EndTime = end.Format(domain.TimeFormat)
	}

	for _, extra := range r.ExtraServices {
		resp.ExtraServices = append(resp.ExtraServices, ExtraServiceResponse{
			ID:      extra.ID,
			Name:    extra.Name,
			Price:   extra.Price,
			Minutes: extra.Minutes,
		})
	}

	resp.Candidates = FromDomainCandidates(candidates)

	return resp
}

// FromStatus метаданные статуса, неизвестный код отображается как "Unknown"
func FromStatus(code string) StatusResponse {
	info := domain.Describe(code)
	return StatusResponse{
		Code:       info.Code,
		Known:      info.Known,
		Label:      info.Label,
		Background: info.Tone.Background,
		Text:       info.Tone.Text,
	}
}

// FromAction конвертирует кнопку действия
func FromAction(a domain.Action) ActionResponse {
	return ActionResponse{
		Kind:    string(a.Kind),
		Label:   a.Label,
		Enabled: a.Enabled,
	}
}

// FromDomainCandidates конвертирует список кандидатов
func FromDomainCandidates(candidates []domain.Candidate) []CandidateResponse {
	if len(candidates) == 0 {
		return nil
	}

	resp := make([]CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		item := CandidateResponse{
			ManagerID:        c.ManagerID,
			ManagerName:      c.ManagerName,
			AverageRating:    c.AverageRating,
			ReviewCount:      c.ReviewCount,
			ReservationCount: c.ReservationCount,
			Bio:              c.Bio,
		}
		if c.RecentReservationDate != nil {
			date := c.RecentReservationDate.Format(domain.DateFormat)
			item.RecentReservationDate = &date
		}
		resp = append(resp, item)
	}

	return resp
}
