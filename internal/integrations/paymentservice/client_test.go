package paymentservice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

func TestClient_Capture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		_, _ = w.Write([]byte(`{"id":"pay-1","method":"card","amount":120.5}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.NewNop())

	payment, err := client.Capture(context.Background(), CaptureRequest{
		ReservationID:  1,
		Method:         "card",
		Amount:         120.5,
		IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pay-1", payment.ID)
}

func TestClient_CaptureDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"message":"card declined"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.NewNop())

	_, err := client.Capture(context.Background(), CaptureRequest{ReservationID: 1, IdempotencyKey: "k"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNetworkFailure))

	msg, ok := integrations.RemoteMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "card declined", msg)
}
