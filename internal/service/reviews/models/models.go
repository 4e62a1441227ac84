package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// CreateReviewRequest запрос на создание отзыва
type CreateReviewRequest struct {
	ReservationID int64  `json:"-"`
	AuthorID      int64  `json:"-"`
	Rating        int    `json:"rating"`
	Content       string `json:"content"`
}

// Response модели

// ReviewResponse отзыв
type ReviewResponse struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"reservationId"`
	AuthorID      int64     `json:"authorId"`
	AuthorRole    string    `json:"authorRole"` // customer, manager
	Rating        int       `json:"rating"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromDomainReview преобразует доменный отзыв в ответ
func FromDomainReview(r *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:            r.ID,
		ReservationID: r.ReservationID,
		AuthorID:      r.AuthorID,
		AuthorRole:    string(r.AuthorRole),
		Rating:        r.Rating,
		Content:       r.Content,
		CreatedAt:     r.CreatedAt,
	}
}

// FromDomainReviews преобразует список отзывов
func FromDomainReviews(reviews []*domain.Review) []*ReviewResponse {
	result := make([]*ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		result = append(result, FromDomainReview(r))
	}
	return result
}
