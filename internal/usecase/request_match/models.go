package request_match

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на подбор менеджеров
type Request struct {
	CustomerID    int64            `json:"-" validate:"required,gt=0"`
	RequestDate   time.Time        `json:"requestDate" validate:"required"`
	StartTime     types.TimeString `json:"startTime" validate:"required"`
	Turnaround    int              `json:"turnaround"`
	Price         float64          `json:"price" validate:"gte=0"`
	ExtraServices []ExtraService   `json:"extraServices" validate:"max=20,dive"`
	RoadAddress   string           `json:"roadAddress" validate:"required,max=512"`
	DetailAddress string           `json:"detailAddress" validate:"max=512"`
	Latitude      float64          `json:"latitude" validate:"latitude"`
	Longitude     float64          `json:"longitude" validate:"longitude"`
}

// ExtraService дополнительная услуга в запросе
type ExtraService struct {
	Name    string  `json:"name" validate:"required,max=128"`
	Price   float64 `json:"price" validate:"gte=0"`
	Minutes int     `json:"minutes" validate:"gte=0"`
}

// Response модель ответа: бронирование в фазе подбора и кандидаты
type Response struct {
	Reservation *domain.Reservation // Созданное бронирование (REQUESTED)
	Candidates  []domain.Candidate  // Подобранные менеджеры
	ExpiresAt   time.Time           // Срок жизни фазы подбора
}
