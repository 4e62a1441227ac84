package request_match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/booking"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/matchingservice"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	created    *domain.Reservation
	candidates []domain.Candidate
	canceled   []domain.ReservationStatus
	createErr  error
	saveErr    error
}

func (f *fakeRepo) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	clone := *res
	clone.ID = 42
	f.created = &clone
	return &clone, nil
}

func (f *fakeRepo) SaveCandidates(ctx context.Context, reservationID int64, candidates []domain.Candidate) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.candidates = candidates
	return nil
}

func (f *fakeRepo) Cancel(ctx context.Context, id int64, from, to domain.ReservationStatus, reason *string) error {
	f.canceled = append(f.canceled, to)
	return nil
}

type fakeMatching struct {
	candidates []domain.Candidate
	err        error
	criteria   matchingservice.Criteria
	released   []int64
}

func (f *fakeMatching) RequestMatch(ctx context.Context, criteria matchingservice.Criteria) ([]domain.Candidate, error) {
	f.criteria = criteria
	return f.candidates, f.err
}

func (f *fakeMatching) ReleaseHolds(ctx context.Context, reservationID int64, managerIDs []int64) error {
	f.released = append(f.released, managerIDs...)
	return nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopCompensator struct{}

func (nopCompensator) CancelBeforeConfirm(ctx context.Context, reservationID int64, candidateIDs []int64) error {
	return nil
}

type nopFinalizer struct{}

func (nopFinalizer) Confirm(ctx context.Context, c domain.Confirmation) (*domain.Reservation, error) {
	return nil, errors.New("not used")
}

var testNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeRepo, matching *fakeMatching) (*UseCase, *booking.Registry) {
	log := logger.NewNop()
	registry := booking.NewRegistry(nopFinalizer{}, nopCompensator{}, metrics.Nop{}, log, 10*time.Minute)
	uc := NewUseCase(repo, matching, registry, inlineTx{}, metrics.Nop{}, 10*time.Minute, log)
	uc.timeProvider = fixedTime{now: testNow}
	return uc, registry
}

func validRequest() *Request {
	return &Request{
		CustomerID:  7,
		RequestDate: time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		Turnaround:  3,
		Price:       100,
		ExtraServices: []ExtraService{
			{Name: "Windows", Price: 20, Minutes: 30},
		},
		RoadAddress: "1 Main St",
		Latitude:    37.5,
		Longitude:   127.0,
	}
}

func TestExecute_OpensSession(t *testing.T) {
	repo := &fakeRepo{}
	matching := &fakeMatching{candidates: []domain.Candidate{{ManagerID: 1}, {ManagerID: 2}}}
	uc, registry := newTestUseCase(repo, matching)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.Reservation.ID)
	assert.Equal(t, domain.StatusRequested, resp.Reservation.Status)
	assert.Equal(t, testNow.Add(10*time.Minute), resp.ExpiresAt)
	require.NotNil(t, repo.created.MatchingExpiresAt)
	assert.Equal(t, resp.ExpiresAt, *repo.created.MatchingExpiresAt)
	assert.Len(t, repo.created.ExtraServices, 1)
	assert.Len(t, repo.candidates, 2)

	assert.Equal(t, "2026-05-11", matching.criteria.RequestDate)
	assert.Equal(t, "10:00", matching.criteria.StartTime)

	session, err := registry.Get(42, 7)
	require.NoError(t, err)
	assert.True(t, session.IsOpen())
	assert.Empty(t, repo.canceled)
}

func TestExecute_NoManagersPreCancels(t *testing.T) {
	repo := &fakeRepo{}
	matching := &fakeMatching{}
	uc, registry := newTestUseCase(repo, matching)

	_, err := uc.Execute(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoManagersMatched)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assert.Equal(t, []domain.ReservationStatus{domain.StatusPreCanceled}, repo.canceled)
	assert.False(t, registry.Has(42))
}

func TestExecute_MatchingFailure(t *testing.T) {
	repo := &fakeRepo{}
	matching := &fakeMatching{err: domain.ErrNetworkFailure}
	uc, _ := newTestUseCase(repo, matching)

	_, err := uc.Execute(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusPreCanceled}, repo.canceled)
}

func TestExecute_SaveCandidatesFailureReleasesHolds(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("db down")}
	matching := &fakeMatching{candidates: []domain.Candidate{{ManagerID: 1}, {ManagerID: 2}}}
	uc, _ := newTestUseCase(repo, matching)

	_, err := uc.Execute(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []int64{1, 2}, matching.released)
	assert.Equal(t, []domain.ReservationStatus{domain.StatusPreCanceled}, repo.canceled)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
		field  string
	}{
		{
			name:   "before service hours",
			modify: func(r *Request) { r.StartTime = "07:00" },
			field:  "startTime",
		},
		{
			name:   "malformed start time",
			modify: func(r *Request) { r.StartTime = "9am" },
			field:  "startTime",
		},
		{
			name:   "zero turnaround",
			modify: func(r *Request) { r.Turnaround = 0 },
			field:  "turnaround",
		},
		{
			name:   "turnaround too long",
			modify: func(r *Request) { r.Turnaround = 13 },
			field:  "turnaround",
		},
		{
			name:   "past midnight",
			modify: func(r *Request) { r.StartTime = "20:00"; r.Turnaround = 5 },
			field:  "turnaround",
		},
		{
			name:   "missing address",
			modify: func(r *Request) { r.RoadAddress = "" },
			field:  "roadAddress",
		},
		{
			name:   "bad latitude",
			modify: func(r *Request) { r.Latitude = 91 },
			field:  "latitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			uc, _ := newTestUseCase(repo, &fakeMatching{})

			req := validRequest()
			tt.modify(req)

			_, err := uc.Execute(context.Background(), req)
			require.Error(t, err)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Nil(t, repo.created)
		})
	}
}

func TestExecute_WindowInPast(t *testing.T) {
	repo := &fakeRepo{}
	uc, _ := newTestUseCase(repo, &fakeMatching{})

	req := validRequest()
	req.RequestDate = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	req.StartTime = "08:30"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateInPast)
	assert.Nil(t, repo.created)
}
