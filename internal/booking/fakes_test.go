package booking

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

type fakeFinalizer struct {
	mu      sync.Mutex
	calls   []domain.Confirmation
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeFinalizer) Confirm(ctx context.Context, c domain.Confirmation) (*domain.Reservation, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}

	managerID := c.ManagerID
	return &domain.Reservation{
		ID:                c.ReservationID,
		CustomerID:        c.CustomerID,
		Status:            domain.StatusConfirmed,
		SelectedManagerID: &managerID,
	}, nil
}

func (f *fakeFinalizer) Calls() []domain.Confirmation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Confirmation(nil), f.calls...)
}

type compensation struct {
	reservationID int64
	candidateIDs  []int64
}

type fakeCompensator struct {
	mu      sync.Mutex
	calls   []compensation
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeCompensator) CancelBeforeConfirm(ctx context.Context, reservationID int64, candidateIDs []int64) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, compensation{reservationID: reservationID, candidateIDs: candidateIDs})
	return f.err
}

func (f *fakeCompensator) Calls() []compensation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]compensation(nil), f.calls...)
}

type fakeSource struct {
	expired    []*domain.Reservation
	candidates map[int64][]domain.Candidate
	err        error
}

func (f *fakeSource) ListExpiredMatching(ctx context.Context, now time.Time, limit uint64) ([]*domain.Reservation, error) {
	return f.expired, f.err
}

func (f *fakeSource) GetCandidates(ctx context.Context, reservationID int64) ([]domain.Candidate, error) {
	return f.candidates[reservationID], nil
}

const (
	managerA   int64 = 101
	managerB   int64 = 102
	customerID int64 = 7
)

func candidatesAB() []domain.Candidate {
	return []domain.Candidate{
		{ManagerID: managerA, ManagerName: "A"},
		{ManagerID: managerB, ManagerName: "B"},
	}
}

func requested(id int64) *domain.Reservation {
	return &domain.Reservation{ID: id, CustomerID: customerID, Status: domain.StatusRequested}
}

func newTestRegistry(fin *fakeFinalizer, comp *fakeCompensator) *Registry {
	return NewRegistry(fin, comp, metrics.Nop{}, logger.NewNop(), 15*time.Minute)
}
