package matchingservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations"
)

const serviceName = "matchingservice"

// Client клиент для работы с MatchingService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента MatchingService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// RequestMatch подбирает менеджеров и ставит на них мягкую блокировку
func (c *Client) RequestMatch(ctx context.Context, criteria Criteria) ([]domain.Candidate, error) {
	url := fmt.Sprintf("%s/internal/matches", c.baseURL)

	var result MatchResponse
	if err := c.post(ctx, url, criteria, &result); err != nil {
		c.log.Error("RequestMatch: failed for reservation_id=%d: %v", criteria.ReservationID, err)
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(result.Candidates))
	for _, cand := range result.Candidates {
		candidates = append(candidates, domain.Candidate{
			ManagerID:             cand.ManagerID,
			ManagerName:           cand.ManagerName,
			AverageRating:         cand.AverageRating,
			ReviewCount:           cand.ReviewCount,
			ReservationCount:      cand.ReservationCount,
			Bio:                   cand.Bio,
			RecentReservationDate: cand.RecentReservationDate,
		})
	}

	c.log.Info("RequestMatch: reservation_id=%d, candidates=%d", criteria.ReservationID, len(candidates))
	return candidates, nil
}

// ReleaseHolds снимает мягкую блокировку с менеджеров
func (c *Client) ReleaseHolds(ctx context.Context, reservationID int64, managerIDs []int64) error {
	url := fmt.Sprintf("%s/internal/holds/release", c.baseURL)

	req := ReleaseRequest{
		ReservationID: reservationID,
		ManagerIDs:    managerIDs,
	}
	if err := c.post(ctx, url, req, nil); err != nil {
		c.log.Warn("ReleaseHolds: failed for reservation_id=%d: %v", reservationID, err)
		return err
	}

	return nil
}

func (c *Client) post(ctx context.Context, url string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return integrations.TransportError(serviceName, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		// Продолжаем обработку
	default:
		return integrations.NewRemoteError(serviceName, resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
