package integrations

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNewRemoteError(t *testing.T) {
	tests := []struct {
		name      string
		resp      *http.Response
		message   string
		retryable bool
	}{
		{"json message", response(http.StatusConflict, `{"message":"slot is taken"}`), "slot is taken", false},
		{"plain body", response(http.StatusBadGateway, "upstream down"), "upstream down", true},
		{"empty body", response(http.StatusNotFound, ""), "Not Found", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRemoteError("matchingservice", tt.resp)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.retryable, errors.Is(err, domain.ErrNetworkFailure))

			msg, ok := RemoteMessage(fmt.Errorf("wrapped: %w", err))
			assert.True(t, ok)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestTransportError(t *testing.T) {
	err := TransportError("paymentservice", errors.New("connection refused"))
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)

	_, ok := RemoteMessage(err)
	assert.False(t, ok)
}
