package abandon_session

import (
	"context"
	"errors"
	"fmt"
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

func abandon(h *Handler, reservationID string, userID int64) *httptest.ResponseRecorder {
	return abandonCtx(context.Background(), h, reservationID, userID)
}

func abandonCtx(ctx context.Context, h *Handler, reservationID string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/booking-sessions/"+reservationID+"/abandon", nil)
	req = mux.SetURLVars(req, map[string]string{"reservationId": reservationID})
	req = req.WithContext(middleware.WithUser(ctx, userID, domain.RoleCustomer))

	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		compErr    error
		wantStatus int
		wantCalls  int
	}{
		{name: "abandoned", userID: customerID, wantStatus: http.StatusNoContent, wantCalls: 1},
		{name: "other customer", userID: customerID + 1, wantStatus: http.StatusForbidden},
		{
			name:       "compensation failed",
			userID:     customerID,
			compErr:    fmt.Errorf("%w: payment service down", domain.ErrNetworkFailure),
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := &stubCompensator{err: tt.compErr}
			registry := booking.NewRegistry(stubFinalizer{}, comp, metrics.Nop{}, logger.NewNop(), 15*time.Minute)
			_, err := registry.Open(
				&domain.Reservation{ID: 1, CustomerID: customerID, Status: domain.StatusRequested},
				[]domain.Candidate{{ManagerID: 10}},
			)
			require.NoError(t, err)

			rec := abandon(NewHandler(registry, logger.NewNop()), "1", tt.userID)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, comp.calls)
		})
	}
}

func TestHandle_Idempotent(t *testing.T) {
	comp := &stubCompensator{}
	registry := booking.NewRegistry(stubFinalizer{}, comp, metrics.Nop{}, logger.NewNop(), 15*time.Minute)
	_, err := registry.Open(
		&domain.Reservation{ID: 1, CustomerID: customerID, Status: domain.StatusRequested},
		[]domain.Candidate{{ManagerID: 10}},
	)
	require.NoError(t, err)
	h := NewHandler(registry, logger.NewNop())

	assert.Equal(t, http.StatusNoContent, abandon(h, "1", customerID).Code)
	assert.Equal(t, http.StatusNoContent, abandon(h, "1", customerID).Code)
	assert.Equal(t, 1, comp.calls)
}

func TestHandle_ClientDisconnected(t *testing.T) {
	comp := &stubCompensator{}
	registry := booking.NewRegistry(stubFinalizer{}, comp, metrics.Nop{}, logger.NewNop(), 15*time.Minute)
	_, err := registry.Open(
		&domain.Reservation{ID: 1, CustomerID: customerID, Status: domain.StatusRequested},
		[]domain.Candidate{{ManagerID: 10}},
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := abandonCtx(ctx, NewHandler(registry, logger.NewNop()), "1", customerID)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, comp.calls)
	assert.NoError(t, comp.ctxErr, "cancel must not inherit the request cancellation")
	assert.False(t, registry.Has(1))
}
