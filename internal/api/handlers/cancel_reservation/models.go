package cancel_reservation

import (
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	Reason string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelReservationRequest) ToServiceRequest(userID int64) *models.CancelRequest {
	return &models.CancelRequest{
		UserID: userID,
		Reason: r.Reason,
	}
}
