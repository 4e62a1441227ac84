package paymentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/integrations"
)

const serviceName = "paymentservice"

// Client клиент для работы с PaymentService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Capture списывает оплату
// Повтор с тем же IdempotencyKey не приводит к повторному списанию
func (c *Client) Capture(ctx context.Context, capture CaptureRequest) (*Payment, error) {
	url := fmt.Sprintf("%s/internal/payments/capture", c.baseURL)

	body, err := json.Marshal(capture)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", capture.IdempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Capture: transport error for reservation_id=%d: %v", capture.ReservationID, err)
		return nil, integrations.TransportError(serviceName, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	default:
		remoteErr := integrations.NewRemoteError(serviceName, resp)
		c.log.Error("Capture: rejected for reservation_id=%d: %v", capture.ReservationID, remoteErr)
		return nil, remoteErr
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Capture: reservation_id=%d, payment_id=%s, amount=%.2f",
		capture.ReservationID, payment.ID, payment.Amount)
	return &payment, nil
}
