package request_match

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	requestMatch "github.com/m04kA/SMC-ReservationService/internal/usecase/request_match"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// RequestMatchRequest HTTP request model
type RequestMatchRequest struct {
	RequestDate   string                `json:"requestDate"` // "2026-10-18"
	StartTime     string                `json:"startTime"`   // "10:00"
	Turnaround    int                   `json:"turnaround"`
	Price         float64               `json:"price"`
	ExtraServices []ExtraServiceRequest `json:"extraServices,omitempty"`
	RoadAddress   string                `json:"roadAddress"`
	DetailAddress string                `json:"detailAddress"`
	Latitude      float64               `json:"latitude"`
	Longitude     float64               `json:"longitude"`
}

// ExtraServiceRequest дополнительная услуга
type ExtraServiceRequest struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Minutes int     `json:"minutes"`
}

// RequestMatchResponse HTTP response model
type RequestMatchResponse struct {
	Reservation *models.ReservationResponse `json:"reservation"`
	ExpiresAt   time.Time                   `json:"expiresAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RequestMatchRequest) ToUseCaseRequest(customerID int64) (*requestMatch.Request, error) {
	requestDate, err := time.Parse(domain.DateFormat, r.RequestDate)
	if err != nil {
		return nil, domain.NewValidationError("requestDate", "must be YYYY-MM-DD")
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, domain.NewValidationError("startTime", "must be HH:MM")
	}

	extras := make([]requestMatch.ExtraService, 0, len(r.ExtraServices))
	for _, e := range r.ExtraServices {
		extras = append(extras, requestMatch.ExtraService{
			Name:    e.Name,
			Price:   e.Price,
			Minutes: e.Minutes,
		})
	}

	return &requestMatch.Request{
		CustomerID:    customerID,
		RequestDate:   requestDate,
		StartTime:     startTime,
		Turnaround:    r.Turnaround,
		Price:         r.Price,
		ExtraServices: extras,
		RoadAddress:   r.RoadAddress,
		DetailAddress: r.DetailAddress,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
	}, nil
}

// FromUseCaseResponse конвертирует результат use case в HTTP ответ
func FromUseCaseResponse(resp *requestMatch.Response) *RequestMatchResponse {
	return &RequestMatchResponse{
		Reservation: models.FromDomainReservation(resp.Reservation, resp.Candidates),
		ExpiresAt:   resp.ExpiresAt,
	}
}
