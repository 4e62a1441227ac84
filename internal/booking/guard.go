package booking

import (
	"context"
	"errors"
	"strings"
	"time"
)

// LeavePrompt текст подтверждения ухода со страницы бронирования
const LeavePrompt = "leaving will cancel your booking"

const defaultUnloadTimeout = 3 * time.Second

// Confirmer asks the user whether to leave the booking flow
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Navigator commits a navigation to target
type Navigator interface {
	Navigate(target string)
}

// ConfirmerFunc adapts a function to Confirmer
type ConfirmerFunc func(ctx context.Context, prompt string) bool

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) {
	f(target)
}

// Decision outcome of a guarded navigation
type Decision struct {
	Proceed   bool
	Prompted  bool
	Abandoned bool
	// CompensationErr is set when the compensating cancel failed; navigation proceeds anyway
	CompensationErr error
}

// Guard watches navigation while a booking session is open and abandons it
// when the user leaves. It never abandons a confirmed session and never keeps
// the user on the page because a compensating cancel failed.
type Guard struct {
	session       *Session
	confirmer     Confirmer
	navigator     Navigator
	log           Logger
	flowRoutes    []string
	unloadTimeout time.Duration
}

// GuardOption настройка Guard
type GuardOption func(*Guard)

// WithFlowRoutes маршруты внутри сценария бронирования, переход на них не отменяет сессию
func WithFlowRoutes(prefixes ...string) GuardOption {
	return func(g *Guard) {
		g.flowRoutes = prefixes
	}
}

// WithUnloadTimeout таймаут отмены при закрытии вкладки
func WithUnloadTimeout(timeout time.Duration) GuardOption {
	return func(g *Guard) {
		g.unloadTimeout = timeout
	}
}

// NewGuard создает Guard для сессии
func NewGuard(session *Session, confirmer Confirmer, navigator Navigator, log Logger, opts ...GuardOption) *Guard {
	g := &Guard{
		session:       session,
		confirmer:     confirmer,
		navigator:     navigator,
		log:           log,
		flowRoutes:    []string{"/booking"},
		unloadTimeout: defaultUnloadTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BeforeNavigate intercepts an in-app route change
func (g *Guard) BeforeNavigate(ctx context.Context, target string) Decision {
	if !g.session.IsOpen() || g.isFlowRoute(target) {
		g.navigator.Navigate(target)
		return Decision{Proceed: true}
	}

	if !g.confirmer.Confirm(ctx, LeavePrompt) {
		return Decision{Prompted: true}
	}

	decision := Decision{Proceed: true, Prompted: true}

	err := g.session.abandon(ctx, TriggerNavigation)
	switch {
	case err == nil:
		decision.Abandoned = true
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrOperationInFlight):
		// Сессия уже закрыта или подтверждается, отменять нечего
	default:
		g.log.Warn("Guard.BeforeNavigate: leaving reservation_id=%d despite failed cancel: %v",
			g.session.ReservationID(), err)
		decision.Abandoned = true
		decision.CompensationErr = err
	}

	g.navigator.Navigate(target)
	return decision
}

// BeforeUnload reports whether the browser should show an unload warning
func (g *Guard) BeforeUnload() bool {
	return g.session.IsOpen()
}

// OnUnload best-effort abandon when the tab is closed
func (g *Guard) OnUnload(ctx context.Context) {
	if !g.session.IsOpen() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, g.unloadTimeout)
	defer cancel()

	if err := g.session.abandon(ctx, TriggerUnload); err != nil && !errors.Is(err, ErrSessionClosed) {
		g.log.Warn("Guard.OnUnload: reservation_id=%d: %v", g.session.ReservationID(), err)
	}
}

func (g *Guard) isFlowRoute(target string) bool {
	for _, prefix := range g.flowRoutes {
		if target == prefix || strings.HasPrefix(target, prefix+"/") {
			return true
		}
	}
	return false
}
