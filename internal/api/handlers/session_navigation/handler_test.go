package session_navigation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/booking"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

const customerID int64 = 7

type stubFinalizer struct{}

func (stubFinalizer) Confirm(ctx context.Context, c domain.Confirmation) (*domain.Reservation, error) {
	return nil, errors.New("not used")
}

type stubCompensator struct {
	calls  int
	err    error
	ctxErr error // ошибка контекста на момент отмены
}

func (c *stubCompensator) CancelBeforeConfirm(ctx context.Context, reservationID int64, candidateIDs []int64) error {
	c.calls++
	c.ctxErr = ctx.Err()
	return c.err
}

func newRegistry(t *testing.T, comp *stubCompensator) *booking.Registry {
	t.Helper()
	registry := booking.NewRegistry(stubFinalizer{}, comp, metrics.Nop{}, logger.NewNop(), 15*time.Minute)
	_, err := registry.Open(
		&domain.Reservation{ID: 1, CustomerID: customerID, Status: domain.StatusRequested},
		[]domain.Candidate{{ManagerID: 10}, {ManagerID: 11}},
	)
	require.NoError(t, err)
	return registry
}

func navigate(t *testing.T, h *Handler, reservationID string, userID int64, body NavigationRequest) (*httptest.ResponseRecorder, NavigationResponse) {
	t.Helper()
	return navigateCtx(t, context.Background(), h, reservationID, userID, body)
}

func navigateCtx(t *testing.T, ctx context.Context, h *Handler, reservationID string, userID int64, body NavigationRequest) (*httptest.ResponseRecorder, NavigationResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/booking-sessions/"+reservationID+"/navigation", bytes.NewReader(raw))
	req = mux.SetURLVars(req, map[string]string{"reservationId": reservationID})
	req = req.WithContext(middleware.WithUser(ctx, userID, domain.RoleCustomer))

	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	var resp NavigationResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHandle_Route(t *testing.T) {
	tests := []struct {
		name          string
		request       NavigationRequest
		compErr       error
		wantProceed   bool
		wantAbandoned bool
		wantFailed    bool
		wantPrompt    string
		wantCalls     int
	}{
		{
			name:        "flow route passes without prompt",
			request:     NavigationRequest{Kind: KindRoute, Target: "/booking/1/payment"},
			wantProceed: true,
		},
		{
			name:       "user stays on page",
			request:    NavigationRequest{Kind: KindRoute, Target: "/home"},
			wantPrompt: booking.LeavePrompt,
		},
		{
			name:          "user leaves and booking is canceled",
			request:       NavigationRequest{Kind: KindRoute, Target: "/home", Confirmed: true},
			wantProceed:   true,
			wantAbandoned: true,
			wantCalls:     1,
		},
		{
			name:          "user leaves even if cancel fails",
			request:       NavigationRequest{Kind: KindRoute, Target: "/home", Confirmed: true},
			compErr:       errors.New("db down"),
			wantProceed:   true,
			wantAbandoned: true,
			wantFailed:    true,
			wantCalls:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := &stubCompensator{err: tt.compErr}
			h := NewHandler(newRegistry(t, comp), []string{"/booking"}, time.Second, logger.NewNop())

			rec, resp := navigate(t, h, "1", customerID, tt.request)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantProceed, resp.Proceed)
			assert.Equal(t, tt.wantAbandoned, resp.Abandoned)
			assert.Equal(t, tt.wantFailed, resp.CompensationFailed)
			assert.Equal(t, tt.wantPrompt, resp.Prompt)
			assert.Equal(t, tt.wantCalls, comp.calls)
		})
	}
}

func TestHandle_RouteClientDisconnected(t *testing.T) {
	comp := &stubCompensator{}
	registry := newRegistry(t, comp)
	h := NewHandler(registry, []string{"/booking"}, time.Second, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, resp := navigateCtx(t, ctx, h, "1", customerID,
		NavigationRequest{Kind: KindRoute, Target: "/home", Confirmed: true})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Abandoned)
	assert.False(t, resp.CompensationFailed)
	assert.Equal(t, 1, comp.calls)
	assert.NoError(t, comp.ctxErr, "cancel must not inherit the request cancellation")
}

func TestHandle_Unload(t *testing.T) {
	comp := &stubCompensator{}
	registry := newRegistry(t, comp)
	h := NewHandler(registry, nil, time.Second, logger.NewNop())

	_, resp := navigate(t, h, "1", customerID, NavigationRequest{Kind: KindBeforeUnload})
	assert.True(t, resp.ShowUnloadWarning)

	_, resp = navigate(t, h, "1", customerID, NavigationRequest{Kind: KindUnload})
	assert.True(t, resp.Abandoned)
	assert.Equal(t, 1, comp.calls)
	assert.False(t, registry.Has(1))

	// Сессия закрыта: повторная выгрузка ничего не отменяет
	_, resp = navigate(t, h, "1", customerID, NavigationRequest{Kind: KindUnload})
	assert.True(t, resp.Proceed)
	assert.Equal(t, 1, comp.calls)
}

func TestHandle_Errors(t *testing.T) {
	h := NewHandler(newRegistry(t, &stubCompensator{}), nil, time.Second, logger.NewNop())

	rec, _ := navigate(t, h, "abc", customerID, NavigationRequest{Kind: KindRoute})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = navigate(t, h, "1", customerID, NavigationRequest{Kind: "reload"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = navigate(t, h, "1", customerID+1, NavigationRequest{Kind: KindRoute, Target: "/home"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := navigate(t, h, "2", customerID, NavigationRequest{Kind: KindRoute, Target: "/home"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Proceed)
	assert.Equal(t, "/home", resp.Target)
}
