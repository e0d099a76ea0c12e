package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"coldwatch/internal/models"
)

// Client errors
var (
	ErrEmptyIngestURL = errors.New("ingest URL is required")
)

// Client posts readings to the ingestion endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the given ingestion URL.
func NewClient(url string) (*Client, error) {
	if url == "" {
		return nil, ErrEmptyIngestURL
	}

	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// SendResult is the decoded ingestion response.
type SendResult struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Error   string `json:"error"`
}

// SendReading posts one reading and decodes the response. A non-2xx status
// is an error carrying the server's message.
func (c *Client) SendReading(ctx context.Context, reading *models.FridgeReading) (*SendResult, error) {
	body, err := json.Marshal(reading)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reading: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send reading: %w", err)
	}
	defer resp.Body.Close()

	var result SendResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &result, fmt.Errorf("ingest returned status %d: %s", resp.StatusCode, result.Error)
	}

	return &result, nil
}
