package execution

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type fakeRepo struct {
	mu           sync.Mutex
	reservations map[int64]*domain.Reservation
	candidates   map[int64][]domain.Candidate
	checkIDs     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reservations: make(map[int64]*domain.Reservation),
		candidates:   make(map[int64][]domain.Candidate),
	}
}

func (f *fakeRepo) get(id int64) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, ok := f.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	clone := *res
	return &clone, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return f.get(id)
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	return f.get(id)
}

func (f *fakeRepo) GetCandidates(ctx context.Context, id int64) ([]domain.Candidate, error) {
	return f.candidates[id], nil
}

func (f *fakeRepo) update(id int64, from domain.ReservationStatus, apply func(*domain.Reservation)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, ok := f.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	if res.Status != from {
		return reservationRepo.ErrStatusConflict
	}
	apply(res)
	return nil
}

func (f *fakeRepo) Confirm(ctx context.Context, id int64, params reservationRepo.ConfirmParams) error {
	return f.update(id, domain.StatusRequested, func(r *domain.Reservation) {
		r.Status = domain.StatusConfirmed
		r.SelectedManagerID = ptr.Ptr(params.ManagerID)
	})
}

func (f *fakeRepo) Reject(ctx context.Context, id int64, reason string) error {
	return f.update(id, domain.StatusRequested, func(r *domain.Reservation) {
		r.Status = domain.StatusRejected
		r.RejectReason = &reason
	})
}

func (f *fakeRepo) CheckIn(ctx context.Context, id int64, checkID string, inTime time.Time, fileID *int64) error {
	return f.update(id, domain.StatusConfirmed, func(r *domain.Reservation) {
		f.checkIDs = append(f.checkIDs, checkID)
		r.Status = domain.StatusInProgress
		r.CheckID = &checkID
		r.InTime = &inTime
		r.InFileID = fileID
	})
}

func (f *fakeRepo) CheckOut(ctx context.Context, id int64, outTime time.Time, fileID *int64) error {
	return f.update(id, domain.StatusInProgress, func(r *domain.Reservation) {
		r.Status = domain.StatusCompleted
		r.OutTime = &outTime
		r.OutFileID = fileID
	})
}

type fakeFiles struct {
	mu         sync.Mutex
	failNames  map[string]bool
	groupErr   error
	uploaded   []string
	groups     map[int64][]string
	nextGroup  int64
	groupCalls int
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{
		failNames: make(map[string]bool),
		groups:    make(map[int64][]string),
		nextGroup: 100,
	}
}

func (f *fakeFiles) UploadFile(ctx context.Context, name, contentType string, content io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNames[name] {
		return "", domain.ErrNetworkFailure
	}
	if _, err := io.ReadAll(content); err != nil {
		return "", err
	}
	f.uploaded = append(f.uploaded, name)
	return "https://files.local/" + name, nil
}

func (f *fakeFiles) CreateFileGroup(ctx context.Context, urls []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.groupCalls++
	if f.groupErr != nil {
		return 0, f.groupErr
	}
	id := f.nextGroup
	f.nextGroup++
	f.groups[id] = urls
	return id, nil
}

func (f *fakeFiles) UpdateFileGroup(ctx context.Context, groupID int64, urls []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.groupCalls++
	if f.groupErr != nil {
		return f.groupErr
	}
	f.groups[groupID] = urls
	return nil
}

type fakeMatching struct {
	released []int64
}

func (f *fakeMatching) ReleaseHolds(ctx context.Context, reservationID int64, managerIDs []int64) error {
	f.released = append(f.released, managerIDs...)
	return nil
}

type fakeSessions struct {
	detached []int64
	err      error
}

func (f *fakeSessions) Detach(reservationID int64) error {
	if f.err != nil {
		return f.err
	}
	f.detached = append(f.detached, reservationID)
	return nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	testNow      = time.Date(2026, 5, 11, 10, 5, 0, 0, time.UTC)
	errGroupDown = errors.New("file group service down")
)

type testEnv struct {
	svc      *Service
	repo     *fakeRepo
	files    *fakeFiles
	matching *fakeMatching
	sessions *fakeSessions
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:     newFakeRepo(),
		files:    newFakeFiles(),
		matching: &fakeMatching{},
		sessions: &fakeSessions{},
	}
	env.svc = NewService(env.repo, env.files, env.matching, env.sessions, inlineTx{}, metrics.Nop{}, logger.NewNop())
	env.svc.timeProvider = fixedTime{now: testNow}
	return env
}

func (e *testEnv) addRequested(id int64, candidateIDs ...int64) {
	e.repo.reservations[id] = &domain.Reservation{ID: id, CustomerID: 7, Status: domain.StatusRequested}
	candidates := make([]domain.Candidate, 0, len(candidateIDs))
	for _, cid := range candidateIDs {
		candidates = append(candidates, domain.Candidate{ManagerID: cid})
	}
	e.repo.candidates[id] = candidates
}

func (e *testEnv) addConfirmed(id, managerID int64) {
	e.repo.reservations[id] = &domain.Reservation{
		ID:                id,
		CustomerID:        7,
		Status:            domain.StatusConfirmed,
		SelectedManagerID: ptr.Ptr(managerID),
	}
}

func file(name string) EvidenceFile {
	body := "content of " + name
	return EvidenceFile{
		Name:        name,
		ContentType: "image/jpeg",
		Size:        int64(len(body)),
		Content:     strings.NewReader(body),
	}
}
