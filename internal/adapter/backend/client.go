// Package backend talks to the prediction service, or stands in for it with
// generated demo data.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pu9052473/shoreline-project/internal/domain"
)

// maxBodyBytes bounds how much of a reply is read into memory.
const maxBodyBytes = 32 << 20

// Client sends prediction requests to the model endpoints over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a backend client. A zero timeout leaves requests bounded
// only by the caller's context.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Predict POSTs the request body to the model's endpoint. Failures to reach
// the backend and non-OK statuses are returned as *domain.TransportError.
func (c *Client) Predict(ctx context.Context, model domain.ModelDescriptor, pr domain.PredictionRequest) (domain.BackendReply, error) {
	payload, err := json.Marshal(pr)
	if err != nil {
		return domain.BackendReply{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+model.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.BackendReply{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BackendReply{}, &domain.TransportError{Err: fmt.Errorf("%s request: %w", model.ID, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.BackendReply{}, &domain.TransportError{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("backend returned non-OK status",
			"model_id", model.ID,
			"status", resp.StatusCode,
		)
		return domain.BackendReply{}, &domain.TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", truncate(body, 256)),
		}
	}

	c.logger.Debug("backend replied", "model_id", model.ID, "bytes", len(body))
	return domain.BackendReply{Body: body}, nil
}

// CheckReadiness calls the backend health endpoint.
func (c *Client) CheckReadiness(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend health: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.New("backend health: status " + http.StatusText(resp.StatusCode))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
