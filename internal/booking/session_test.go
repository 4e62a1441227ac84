package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func TestSession_SelectAndConfirm(t *testing.T) {
	fin := &fakeFinalizer{}
	comp := &fakeCompensator{}
	registry := newTestRegistry(fin, comp)

	session, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)

	require.NoError(t, session.Select(managerB))

	res, err := session.Confirm(context.Background(), "card", 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, res.Status)
	require.NotNil(t, res.SelectedManagerID)
	assert.Equal(t, managerB, *res.SelectedManagerID)

	calls := fin.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, managerB, calls[0].ManagerID)
	assert.Equal(t, "card", calls[0].PaymentMethod)
	assert.NotEmpty(t, calls[0].IdempotencyKey)

	assert.False(t, session.IsOpen())
	assert.False(t, registry.Has(1))

	// Подтвержденную сессию нельзя отменить
	assert.ErrorIs(t, session.Abandon(context.Background()), ErrSessionClosed)
	assert.Empty(t, comp.Calls())
}

func TestSession_ConfirmWithoutSelection(t *testing.T) {
	registry := newTestRegistry(&fakeFinalizer{}, &fakeCompensator{})
	session, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)

	_, err = session.Confirm(context.Background(), "card", 100)
	assert.ErrorIs(t, err, ErrNoManagerSelected)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, session.IsOpen())
}

func TestSession_SelectUnknownManager(t *testing.T) {
	registry := newTestRegistry(&fakeFinalizer{}, &fakeCompensator{})
	session, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)

	err = session.Select(999)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "managerId", validationErr.Field)

	_, selected := session.Selected()
	assert.False(t, selected)
}

func TestSession_ConfirmFailureKeepsSessionOpen(t *testing.T) {
	fin := &fakeFinalizer{err: domain.ErrNetworkFailure}
	registry := newTestRegistry(fin, &fakeCompensator{})
	session, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)
	require.NoError(t, session.Select(managerA))

	_, err = session.Confirm(context.Background(), "card", 100)
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Equal(t, StateOpen, session.State())
	assert.True(t, registry.Has(1))

	fin.err = nil
	_, err = session.Confirm(context.Background(), "card", 100)
	require.NoError(t, err)

	calls := fin.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0].IdempotencyKey, calls[1].IdempotencyKey, "retries reuse the payment key")
}

func TestSession_AbandonIsIdempotent(t *testing.T) {
	comp := &fakeCompensator{}
	registry := newTestRegistry(&fakeFinalizer{}, comp)
	session, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)

	require.NoError(t, session.Abandon(context.Background()))
	require.NoError(t, session.Abandon(context.Background()))

	calls := comp.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(1), calls[0].reservationID)
	assert.Equal(t, []int64{managerA, managerB}, calls[0].candidateIDs)
	assert.Equal(t, StateAbandoned, session.State())
	assert.False(t, registry.Has(1))

	_, err = session.Confirm(context.Background(), "card", 100)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_AbandonCompensationFailure(t *testing.T) {
	comp := &fakeCompensator{err: domain.ErrNetworkFailure}
	registry := newTestRegistry(&fakeFinalizer{}, comp)
	session, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)

	err = session.Abandon(context.Background())
	assert.ErrorIs(t, err, domain.ErrCompensationFailed)
	assert.False(t, session.IsOpen(), "session closes even when the cancel fails")

	require.NoError(t, session.Abandon(context.Background()))
	assert.Len(t, comp.Calls(), 1)
}

func TestSession_ConcurrentAbandonSendsOneCancel(t *testing.T) {
	comp := &fakeCompensator{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	registry := newTestRegistry(&fakeFinalizer{}, comp)
	session, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)
	require.NoError(t, session.Select(managerA))

	var wg sync.WaitGroup
	errs := make([]error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = session.Abandon(context.Background())
	}()
	<-comp.entered

	// Пока отмена в полете, подтверждение отклоняется
	_, err = session.Confirm(context.Background(), "card", 100)
	assert.ErrorIs(t, err, ErrOperationInFlight)

	for i := 1; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = session.Abandon(context.Background())
		}(i)
	}

	close(comp.release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, comp.Calls(), 1)
}

func TestSession_AbandonWhileConfirming(t *testing.T) {
	fin := &fakeFinalizer{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	comp := &fakeCompensator{}
	registry := newTestRegistry(fin, comp)
	session, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)
	require.NoError(t, session.Select(managerA))

	done := make(chan error, 1)
	go func() {
		_, err := session.Confirm(context.Background(), "card", 100)
		done <- err
	}()
	<-fin.entered

	assert.ErrorIs(t, session.Abandon(context.Background()), ErrOperationInFlight)
	assert.ErrorIs(t, session.Select(managerB), ErrOperationInFlight)

	close(fin.release)
	require.NoError(t, <-done)
	assert.Empty(t, comp.Calls())
}
