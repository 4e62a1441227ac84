package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type fakeRepo struct {
	slots map[int64][]domain.AvailabilitySlot
	err   error
}

func (f *fakeRepo) GetByManager(ctx context.Context, managerID int64) ([]domain.AvailabilitySlot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.slots[managerID], nil
}

func (f *fakeRepo) ReplaceForManager(ctx context.Context, managerID int64, slots []domain.AvailabilitySlot) error {
	if f.err != nil {
		return f.err
	}
	f.slots[managerID] = slots
	return nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, inlineTx{}, logger.NewNop())
}

func TestService_Update(t *testing.T) {
	repo := &fakeRepo{slots: make(map[int64][]domain.AvailabilitySlot)}
	svc := newTestService(repo)

	resp, err := svc.Update(context.Background(), &models.UpdateRequest{
		UserID:    5,
		ManagerID: 5,
		Slots: []models.SlotRequest{
			{DayOfWeek: "TUE", Hour: "13:00"},
			{DayOfWeek: "TUE", Hour: "12:00"},
			{DayOfWeek: "TUE", Hour: "12:00"},
		},
	})
	require.NoError(t, err)

	assert.Len(t, repo.slots[5], 2)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, "TUE", resp.Days[1].DayOfWeek)
	require.Len(t, resp.Days[1].Ranges, 1)
	assert.Equal(t, "12:00–14:00", resp.Days[1].Ranges[0].Label)
	require.Len(t, resp.Days[1].Hours, 24)
	assert.Equal(t, "12:00", resp.Days[1].Hours[12].Hour)
	assert.Equal(t, "available", resp.Days[1].Hours[12].State)
	assert.Equal(t, "blocked", resp.Days[1].Hours[0].State)
}

func TestService_Update_BlockedHour(t *testing.T) {
	repo := &fakeRepo{slots: make(map[int64][]domain.AvailabilitySlot)}
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), &models.UpdateRequest{
		UserID:    5,
		ManagerID: 5,
		Slots:     []models.SlotRequest{{DayOfWeek: "MON", Hour: "06:00"}},
	})
	require.Error(t, err)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "hour", validationErr.Field)
	assert.Empty(t, repo.slots)
}

func TestService_Update_InvalidDay(t *testing.T) {
	svc := newTestService(&fakeRepo{slots: make(map[int64][]domain.AvailabilitySlot)})

	_, err := svc.Update(context.Background(), &models.UpdateRequest{
		UserID:    5,
		ManagerID: 5,
		Slots:     []models.SlotRequest{{DayOfWeek: "monday", Hour: "09:00"}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Update_ForeignManager(t *testing.T) {
	svc := newTestService(&fakeRepo{slots: make(map[int64][]domain.AvailabilitySlot)})

	_, err := svc.Update(context.Background(), &models.UpdateRequest{UserID: 6, ManagerID: 5})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Get(t *testing.T) {
	repo := &fakeRepo{slots: map[int64][]domain.AvailabilitySlot{
		5: {{DayOfWeek: domain.Sunday, Hour: "23:00"}},
	}}
	svc := newTestService(repo)

	resp, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ManagerID)
	require.Len(t, resp.Days[6].Ranges, 1)
	assert.Equal(t, "24:00", resp.Days[6].Ranges[0].End)
}

func TestService_Get_RepositoryError(t *testing.T) {
	svc := newTestService(&fakeRepo{err: errors.New("db down")})

	_, err := svc.Get(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInternal)
}
