package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func TestRegistry_Open(t *testing.T) {
	registry := newTestRegistry(&fakeFinalizer{}, &fakeCompensator{})

	confirmed := requested(1)
	confirmed.Status = domain.StatusConfirmed
	_, err := registry.Open(confirmed, candidatesAB())
	assert.ErrorIs(t, err, ErrNotMatching)

	_, err = registry.Open(requested(2), nil)
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = registry.Open(requested(3), candidatesAB())
	require.NoError(t, err)

	_, err = registry.Open(requested(3), candidatesAB())
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_Get(t *testing.T) {
	registry := newTestRegistry(&fakeFinalizer{}, &fakeCompensator{})

	opened, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)

	session, err := registry.Get(1, customerID)
	require.NoError(t, err)
	assert.Same(t, opened, session)

	_, err = registry.Get(1, customerID+1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = registry.Get(2, customerID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, session.Abandon(context.Background()))
	_, err = registry.Get(1, customerID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// После закрытия сессию можно открыть заново
	_, err = registry.Open(requested(1), candidatesAB())
	assert.NoError(t, err)
}

func TestRegistry_Expired(t *testing.T) {
	registry := newTestRegistry(&fakeFinalizer{}, &fakeCompensator{})

	start := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return start }

	old, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)

	registry.now = func() time.Time { return start.Add(10 * time.Minute) }
	_, err = registry.Open(requested(2), candidatesAB())
	require.NoError(t, err)

	registry.now = func() time.Time { return start.Add(20 * time.Minute) }
	expired := registry.Expired()
	require.Len(t, expired, 1)
	assert.Same(t, old, expired[0])
}

func TestRegistry_Detach(t *testing.T) {
	compensator := &fakeCompensator{}
	registry := newTestRegistry(&fakeFinalizer{}, compensator)

	session, err := registry.Open(requested(1), candidatesAB())
	require.NoError(t, err)

	require.NoError(t, registry.Detach(1))
	assert.False(t, session.IsOpen())
	assert.False(t, registry.Has(1))

	// Закрытая сессия больше не компенсирует
	assert.NoError(t, session.Abandon(context.Background()))
	_, err = session.Confirm(context.Background(), "card", 100)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Empty(t, compensator.Calls())

	// Нет сессии - нечего закрывать
	assert.NoError(t, registry.Detach(2))
}
