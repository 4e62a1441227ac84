package reviews

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	reviewRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/review"
	"github.com/m04kA/SMC-ReservationService/internal/service/reviews/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

const (
	customerID = int64(7)
	managerID  = int64(10)
)

type fakeReviewRepo struct {
	reviews   []*domain.Review
	createErr error
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	review.ID = int64(len(f.reviews) + 1)
	f.reviews = append(f.reviews, review)
	return review, nil
}

func (f *fakeReviewRepo) ExistsByRole(ctx context.Context, reservationID int64, role domain.AuthorRole) (bool, error) {
	for _, r := range f.reviews {
		if r.ReservationID == reservationID && r.AuthorRole == role {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Review, error) {
	result := make([]*domain.Review, 0)
	for _, r := range f.reviews {
		if r.ReservationID == reservationID {
			result = append(result, r)
		}
	}
	return result, nil
}

type fakeReservationRepo struct {
	reservations map[int64]*domain.Reservation
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res, nil
}

func newTestService(status domain.ReservationStatus) (*Service, *fakeReviewRepo) {
	reviews := &fakeReviewRepo{}
	reservations := &fakeReservationRepo{reservations: map[int64]*domain.Reservation{
		1: {
			ID:                1,
			CustomerID:        customerID,
			Status:            status,
			SelectedManagerID: ptr.Ptr(managerID),
		},
	}}
	return NewService(reviews, reservations, logger.NewNop()), reviews
}

func TestCreateReview_BothSidesIndependently(t *testing.T) {
	svc, repo := newTestService(domain.StatusCompleted)

	customerReview, err := svc.CreateReview(context.Background(), &models.CreateReviewRequest{
		ReservationID: 1, AuthorID: customerID, Rating: 5, Content: "Great job",
	})
	require.NoError(t, err)
	assert.Equal(t, "customer", customerReview.AuthorRole)

	managerReview, err := svc.CreateReview(context.Background(), &models.CreateReviewRequest{
		ReservationID: 1, AuthorID: managerID, Rating: 4, Content: "Friendly customer",
	})
	require.NoError(t, err)
	assert.Equal(t, "manager", managerReview.AuthorRole)

	assert.Len(t, repo.reviews, 2)
}

func TestCreateReview_Duplicate(t *testing.T) {
	svc, _ := newTestService(domain.StatusCompleted)

	req := func() *models.CreateReviewRequest {
		return &models.CreateReviewRequest{ReservationID: 1, AuthorID: customerID, Rating: 5, Content: "ok"}
	}

	_, err := svc.CreateReview(context.Background(), req())
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), req())
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateReview_UniqueViolation(t *testing.T) {
	svc, repo := newTestService(domain.StatusCompleted)
	repo.createErr = reviewRepo.ErrReviewExists

	_, err := svc.CreateReview(context.Background(), &models.CreateReviewRequest{
		ReservationID: 1, AuthorID: customerID, Rating: 5, Content: "ok",
	})
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)
}

func TestCreateReview_Validation(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		content string
		field   string
	}{
		{name: "rating zero", rating: 0, content: "ok", field: "rating"},
		{name: "rating six", rating: 6, content: "ok", field: "rating"},
		{name: "blank content", rating: 3, content: "   ", field: "content"},
		{name: "content too long", rating: 3, content: strings.Repeat("я", 601), field: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(domain.StatusCompleted)

			_, err := svc.CreateReview(context.Background(), &models.CreateReviewRequest{
				ReservationID: 1, AuthorID: customerID, Rating: tt.rating, Content: tt.content,
			})
			require.Error(t, err)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Empty(t, repo.reviews)
		})
	}
}

func TestCreateReview_MaxLengthMultibyte(t *testing.T) {
	svc, _ := newTestService(domain.StatusCompleted)

	_, err := svc.CreateReview(context.Background(), &models.CreateReviewRequest{
		ReservationID: 1, AuthorID: customerID, Rating: 3, Content: strings.Repeat("я", 600),
	})
	assert.NoError(t, err)
}

func TestCreateReview_NotCompleted(t *testing.T) {
	for _, status := range []domain.ReservationStatus{domain.StatusConfirmed, domain.StatusInProgress} {
		t.Run(string(status), func(t *testing.T) {
			svc, _ := newTestService(status)

			_, err := svc.CreateReview(context.Background(), &models.CreateReviewRequest{
				ReservationID: 1, AuthorID: customerID, Rating: 5, Content: "ok",
			})
			assert.ErrorIs(t, err, ErrReservationNotCompleted)
		})
	}
}

func TestCreateReview_Stranger(t *testing.T) {
	svc, _ := newTestService(domain.StatusCompleted)

	_, err := svc.CreateReview(context.Background(), &models.CreateReviewRequest{
		ReservationID: 1, AuthorID: 99, Rating: 5, Content: "ok",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreateReview_ReservationNotFound(t *testing.T) {
	svc, _ := newTestService(domain.StatusCompleted)

	_, err := svc.CreateReview(context.Background(), &models.CreateReviewRequest{
		ReservationID: 2, AuthorID: customerID, Rating: 5, Content: "ok",
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestListReviews(t *testing.T) {
	svc, _ := newTestService(domain.StatusCompleted)

	_, err := svc.CreateReview(context.Background(), &models.CreateReviewRequest{
		ReservationID: 1, AuthorID: customerID, Rating: 5, Content: "ok",
	})
	require.NoError(t, err)

	list, err := svc.ListReviews(context.Background(), 1, managerID, domain.RoleManager)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.ListReviews(context.Background(), 1, 1000, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListReviews(context.Background(), 1, 99, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
