package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	reviewRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/review"
	"github.com/m04kA/SMC-ReservationService/internal/service/reviews/models"
)

// Service сервис отзывов по завершенным бронированиям
type Service struct {
	reviewRepo      ReviewRepository
	reservationRepo ReservationRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса отзывов
func NewService(
	reviewRepo ReviewRepository,
	reservationRepo ReservationRepository,
	logger Logger,
) *Service {
	return &Service{
		reviewRepo:      reviewRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// CreateReview создает отзыв одной из сторон бронирования
// Клиент и менеджер оставляют отзывы независимо, каждый не более одного
func (s *Service) CreateReview(ctx context.Context, req *models.CreateReviewRequest) (*models.ReviewResponse, error) {
	s.logger.Info("CreateReview: reservation id=%d by user=%d, rating=%d", req.ReservationID, req.AuthorID, req.Rating)

	// 1. Валидация входных данных
	req.Content = strings.TrimSpace(req.Content)
	if err := validateReview(req); err != nil {
		s.logger.Warn("CreateReview: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирование должно быть завершено
	res, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("CreateReview: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("CreateReview: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 3. Автор - клиент или назначенный менеджер
	role, ok := authorRole(res, req.AuthorID)
	if !ok {
		s.logger.Warn("CreateReview: user=%d is not a party of reservation id=%d", req.AuthorID, req.ReservationID)
		return nil, ErrAccessDenied
	}

	if res.Status != domain.StatusCompleted {
		s.logger.Warn("CreateReview: reservation id=%d is %s", req.ReservationID, res.Status)
		return nil, ErrReservationNotCompleted
	}

	// 4. Не более одного отзыва от каждой стороны
	exists, err := s.reviewRepo.ExistsByRole(ctx, req.ReservationID, role)
	if err != nil {
		s.logger.Error("CreateReview: failed to check existing review: %v", err)
		return nil, fmt.Errorf("%w: failed to check existing review: %v", ErrInternal, err)
	}
	if exists {
		s.logger.Warn("CreateReview: %s already reviewed reservation id=%d", role, req.ReservationID)
		return nil, ErrReviewAlreadyExists
	}

	review, err := s.reviewRepo.Create(ctx, &domain.Review{
		ReservationID: req.ReservationID,
		AuthorID:      req.AuthorID,
		AuthorRole:    role,
		Rating:        req.Rating,
		Content:       req.Content,
	})
	if err != nil {
		if errors.Is(err, reviewRepo.ErrReviewExists) {
			s.logger.Warn("CreateReview: concurrent review by %s for reservation id=%d", role, req.ReservationID)
			return nil, ErrReviewAlreadyExists
		}
		s.logger.Error("CreateReview: failed to create review: %v", err)
		return nil, fmt.Errorf("%w: failed to create review: %v", ErrInternal, err)
	}

	s.logger.Info("CreateReview: review id=%d created by %s for reservation id=%d", review.ID, role, req.ReservationID)
	return models.FromDomainReview(review), nil
}

// ListReviews возвращает отзывы бронирования
// Доступно сторонам бронирования и администратору
func (s *Service) ListReviews(ctx context.Context, reservationID, userID int64, role domain.Role) ([]*models.ReviewResponse, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("ListReviews: failed to get reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	if role != domain.RoleAdmin && !res.IsParty(userID) {
		s.logger.Warn("ListReviews: access denied for user=%d to reservation id=%d", userID, reservationID)
		return nil, ErrAccessDenied
	}

	reviews, err := s.reviewRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		s.logger.Error("ListReviews: failed to list reviews for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: failed to list reviews: %v", ErrInternal, err)
	}

	return models.FromDomainReviews(reviews), nil
}

// authorRole определяет сторону бронирования по пользователю
func authorRole(res *domain.Reservation, userID int64) (domain.AuthorRole, bool) {
	if res.CustomerID == userID {
		return domain.AuthorCustomer, true
	}
	if res.SelectedManagerID != nil && *res.SelectedManagerID == userID {
		return domain.AuthorManager, true
	}
	return "", false
}

func validateReview(req *models.CreateReviewRequest) error {
	if req.Rating < domain.MinReviewRating || req.Rating > domain.MaxReviewRating {
		return domain.NewValidationError("rating",
			fmt.Sprintf("must be between %d and %d", domain.MinReviewRating, domain.MaxReviewRating))
	}

	length := utf8.RuneCountInString(req.Content)
	if length < domain.MinReviewContentLength || length > domain.MaxReviewContentLength {
		return domain.NewValidationError("content",
			fmt.Sprintf("must be %d to %d characters", domain.MinReviewContentLength, domain.MaxReviewContentLength))
	}

	return nil
}
