// Package client provides a Go client for the podcast generation
// service, including the polling loop used to follow a job to its
// terminal state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultPollInterval is the fixed delay between status polls
const DefaultPollInterval = 3 * time.Second

// SubmitRequest carries the inputs for a new generation job
type SubmitRequest struct {
	JobID     string   `json:"jobId,omitempty"`
	UserID    string   `json:"userId"`
	Type      string   `json:"type"`
	BillCount int      `json:"billCount,omitempty"`
	Topics    []string `json:"topics,omitempty"`
}

// SubmitResponse is the submit-job response
type SubmitResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
}

// JobStatus is the polling payload for a job
type JobStatus struct {
	JobID    string `json:"jobId"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	AudioURL string `json:"audioUrl,omitempty"`
	Duration int    `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Terminal reports whether the status is complete or failed
func (s *JobStatus) Terminal() bool {
	return s.Status == "complete" || s.Status == "failed"
}

// Client talks to the podcast service
type Client struct {
	httpClient   *http.Client
	baseURL      string
	pollInterval time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollInterval overrides the default poll interval
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// New creates a client for the service at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitJob submits a generation job and returns its ID
func (c *Client) SubmitJob(ctx context.Context, req SubmitRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal submit request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit-job", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create submit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("submit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("submit failed with status %d: %s", resp.StatusCode, errResp.Message)
	}

	var decoded SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}

	return decoded.JobID, nil
}

// GetStatus fetches the current status of a job
func (c *Client) GetStatus(ctx context.Context, jobID, userID string) (*JobStatus, error) {
	endpoint := fmt.Sprintf("%s/job-status/%s?userId=%s", c.baseURL, url.PathEscape(jobID), url.QueryEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request returned %d", resp.StatusCode)
	}

	var st JobStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	return &st, nil
}

// PollUntilDone polls the job's status on a fixed interval until it
// reaches a terminal state or the context is cancelled. Cancelling only
// stops the polling; the server-side job continues regardless.
func (c *Client) PollUntilDone(ctx context.Context, jobID, userID string) (*JobStatus, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		st, err := c.GetStatus(ctx, jobID, userID)
		if err != nil {
			return nil, err
		}
		if st.Terminal() {
			return st, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}
