package booking

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Registry хранит открытые сессии подбора, не более одной на бронирование
type Registry struct {
	finalizer   Finalizer
	compensator Compensator
	recorder    Recorder
	log         Logger
	ttl         time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewRegistry создает реестр сессий
func NewRegistry(
	finalizer Finalizer,
	compensator Compensator,
	recorder Recorder,
	log Logger,
	ttl time.Duration,
) *Registry {
	return &Registry{
		finalizer:   finalizer,
		compensator: compensator,
		recorder:    recorder,
		log:         log,
		ttl:         ttl,
		now:         time.Now,
		sessions:    make(map[int64]*Session),
	}
}

// Open открывает сессию для бронирования в статусе REQUESTED
func (r *Registry) Open(res *domain.Reservation, candidates []domain.Candidate) (*Session, error) {
	if !res.IsMatching() {
		return nil, ErrNotMatching
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	held := make([]domain.Candidate, len(candidates))
	copy(held, candidates)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[res.ID]; exists {
		return nil, ErrSessionAlreadyOpen
	}

	session := &Session{
		reservationID:  res.ID,
		customerID:     res.CustomerID,
		candidates:     held,
		idempotencyKey: uuid.NewString(),
		openedAt:       r.now(),
		finalizer:      r.finalizer,
		compensator:    r.compensator,
		recorder:       r.recorder,
		log:            r.log,
		onClose:        r.remove,
		state:          StateOpen,
	}
	r.sessions[res.ID] = session

	r.recorder.SessionEvent("opened")
	r.log.Info("Registry.Open: reservation_id=%d, candidates=%d", res.ID, len(held))

	return session, nil
}

// Get возвращает открытую сессию клиента
func (r *Registry) Get(reservationID, customerID int64) (*Session, error) {
	r.mu.Lock()
	session, ok := r.sessions[reservationID]
	r.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.customerID != customerID {
		return nil, ErrAccessDenied
	}

	return session, nil
}

// Has true если для бронирования есть сессия
func (r *Registry) Has(reservationID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[reservationID]
	return ok
}

// Detach закрывает открытую сессию бронирования без компенсации
// Вызывается перед решением менеджера по бронированию, чтобы сессия его уже не отменила
func (r *Registry) Detach(reservationID int64) error {
	r.mu.Lock()
	session, ok := r.sessions[reservationID]
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return session.detach()
}

// Len количество сессий
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Expired сессии, открытые дольше TTL и не занятые подтверждением или отменой
func (r *Registry) Expired() []*Session {
	deadline := r.now().Add(-r.ttl)

	r.mu.Lock()
	candidates := make([]*Session, 0)
	for _, session := range r.sessions {
		if session.openedAt.Before(deadline) {
			candidates = append(candidates, session)
		}
	}
	r.mu.Unlock()

	expired := make([]*Session, 0, len(candidates))
	for _, session := range candidates {
		if session.State() == StateOpen {
			expired = append(expired, session)
		}
	}

	return expired
}

func (r *Registry) remove(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[session.reservationID]; ok && current == session {
		delete(r.sessions, session.reservationID)
	}
}
