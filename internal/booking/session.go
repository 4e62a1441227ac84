package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Trigger причина компенсирующей отмены, попадает в метрики
type Trigger string

const (
	TriggerAbandon    Trigger = "abandon"
	TriggerNavigation Trigger = "navigation"
	TriggerUnload     Trigger = "unload"
	TriggerTTL        Trigger = "ttl"
	TriggerOrphan     Trigger = "orphan"
)

// State состояние сессии
type State string

const (
	StateOpen       State = "open"
	StateConfirming State = "confirming"
	StateAbandoning State = "abandoning"
	StateConfirmed  State = "confirmed"
	StateAbandoned  State = "abandoned"
)

// Session provisional reservation held between matching and confirmation.
//
// Confirm and Abandon are mutually exclusive: while one is in flight the other
// returns ErrOperationInFlight. Abandon issues the compensating cancel at most
// once; concurrent callers wait for the in-flight call and share its result.
// Network calls run without holding the mutex.
type Session struct {
	reservationID  int64
	customerID     int64
	candidates     []domain.Candidate
	idempotencyKey string
	openedAt       time.Time

	finalizer   Finalizer
	compensator Compensator
	recorder    Recorder
	log         Logger
	onClose     func(*Session)

	mu          sync.Mutex
	state       State
	selected    *int64
	abandonDone chan struct{}
	abandonErr  error
}

// ReservationID идентификатор удерживаемого бронирования
func (s *Session) ReservationID() int64 {
	return s.reservationID
}

// CustomerID владелец сессии
func (s *Session) CustomerID() int64 {
	return s.customerID
}

// OpenedAt время открытия сессии
func (s *Session) OpenedAt() time.Time {
	return s.openedAt
}

// Candidates копия списка кандидатов
func (s *Session) Candidates() []domain.Candidate {
	out := make([]domain.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Selected выбранный менеджер
func (s *Session) Selected() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return 0, false
	}
	return *s.selected, true
}

// State текущее состояние
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsOpen true пока сессия не подтверждена и не отменена
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed()
}

func (s *Session) closed() bool {
	return s.state == StateConfirmed || s.state == StateAbandoned
}

// Select локальный выбор менеджера, без обращения к серверу
func (s *Session) Select(managerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateConfirmed, StateAbandoned:
		return ErrSessionClosed
	case StateConfirming, StateAbandoning:
		return ErrOperationInFlight
	}

	if !domain.ContainsManager(s.candidates, managerID) {
		return domain.NewValidationError("managerId", fmt.Sprintf("manager %d is not a candidate", managerID))
	}

	s.selected = &managerID
	return nil
}

// Confirm финализирует бронирование выбранным менеджером
// При ошибке сессия остается открытой и подтверждение можно повторить
func (s *Session) Confirm(ctx context.Context, paymentMethod string, amount float64) (*domain.Reservation, error) {
	s.mu.Lock()
	switch {
	case s.closed():
		s.mu.Unlock()
		return nil, ErrSessionClosed
	case s.state != StateOpen:
		s.mu.Unlock()
		return nil, ErrOperationInFlight
	case s.selected == nil:
		s.mu.Unlock()
		return nil, ErrNoManagerSelected
	}
	s.state = StateConfirming
	managerID := *s.selected
	s.mu.Unlock()

	res, err := s.finalizer.Confirm(ctx, domain.Confirmation{
		ReservationID:  s.reservationID,
		CustomerID:     s.customerID,
		ManagerID:      managerID,
		PaymentMethod:  paymentMethod,
		Amount:         amount,
		IdempotencyKey: s.idempotencyKey,
	})

	s.mu.Lock()
	if err != nil {
		s.state = StateOpen
		s.mu.Unlock()
		s.log.Warn("Session.Confirm: failed for reservation_id=%d, manager_id=%d: %v", s.reservationID, managerID, err)
		return nil, err
	}
	s.state = StateConfirmed
	s.mu.Unlock()

	s.recorder.SessionEvent("confirmed")
	s.log.Info("Session.Confirm: reservation_id=%d confirmed with manager_id=%d", s.reservationID, managerID)
	s.close()

	return res, nil
}

// Abandon компенсирующая отмена: освобождает кандидатов и закрывает сессию
func (s *Session) Abandon(ctx context.Context) error {
	return s.abandon(ctx, TriggerAbandon)
}

func (s *Session) abandon(ctx context.Context, trigger Trigger) error {
	s.mu.Lock()
	switch s.state {
	case StateConfirmed:
		s.mu.Unlock()
		return ErrSessionClosed
	case StateConfirming:
		s.mu.Unlock()
		return ErrOperationInFlight
	case StateAbandoned:
		s.mu.Unlock()
		return nil
	case StateAbandoning:
		done := s.abandonDone
		s.mu.Unlock()
		select {
		case <-done:
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.abandonErr
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.state = StateAbandoning
	s.abandonDone = make(chan struct{})
	s.mu.Unlock()

	err := s.compensator.CancelBeforeConfirm(ctx, s.reservationID, domain.CandidateIDs(s.candidates))
	if err != nil {
		s.log.Error("Session.Abandon: compensating cancel failed for reservation_id=%d, trigger=%s: %v",
			s.reservationID, trigger, err)
		err = fmt.Errorf("%w: reservation_id=%d: %v", domain.ErrCompensationFailed, s.reservationID, err)
	} else {
		s.log.Info("Session.Abandon: reservation_id=%d released, trigger=%s", s.reservationID, trigger)
	}

	s.mu.Lock()
	s.state = StateAbandoned
	s.abandonErr = err
	close(s.abandonDone)
	s.mu.Unlock()

	s.recorder.Compensation(string(trigger), err)
	if trigger == TriggerTTL {
		s.recorder.SessionEvent("expired")
	} else {
		s.recorder.SessionEvent("abandoned")
	}
	s.close()

	return err
}

// detach закрывает сессию без финализации и без компенсации:
// бронирование уже решено менеджером в обход сессии
func (s *Session) detach() error {
	s.mu.Lock()
	switch s.state {
	case StateConfirming, StateAbandoning:
		s.mu.Unlock()
		return ErrOperationInFlight
	case StateConfirmed, StateAbandoned:
		s.mu.Unlock()
		return nil
	}
	s.state = StateAbandoned
	s.mu.Unlock()

	s.recorder.SessionEvent("detached")
	s.log.Info("Session.Detach: reservation_id=%d resolved outside the session", s.reservationID)
	s.close()

	return nil
}

func (s *Session) close() {
	if s.onClose != nil {
		s.onClose(s)
	}
}
