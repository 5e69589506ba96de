package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/types"
)

// Client talks to the roster API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client with a request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type batchRequest struct {
	Rosters []RosterRequest    `json:"rosters"`
	Match   model.MatchContext `json:"match"`
}

// Health returns nil once the service answers /healthz with 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// ValidateBatch posts rosters to /validate/batch and returns the partition.
func (c *Client) ValidateBatch(ctx context.Context, rosters []RosterRequest, match model.MatchContext) (types.Partition, error) {
	body, err := json.Marshal(batchRequest{Rosters: rosters, Match: match})
	if err != nil {
		return types.Partition{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate/batch", bytes.NewReader(body))
	if err != nil {
		return types.Partition{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Partition{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Partition{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Partition{}, fmt.Errorf("validate batch: status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var out types.Partition
	if err := json.Unmarshal(data, &out); err != nil {
		return types.Partition{}, fmt.Errorf("failed to decode partition: %w", err)
	}
	return out, nil
}
