package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	ErrJobReclaimed  = errors.New("job was reclaimed by server")
	ErrStopRequested = errors.New("server requested stop")
	ErrRejected      = errors.New("result rejected")
)

// QueueClient handles HTTP communication with the job queue
type QueueClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewQueueClient creates a new job queue client
func NewQueueClient(baseURL, apiKey string) *QueueClient {
	return &QueueClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// post sends body as JSON and decodes the reply into out. A 410 becomes
// ErrJobReclaimed.
func (c *QueueClient) post(ctx context.Context, path string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		return ErrJobReclaimed
	}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// ClaimJob attempts to claim a job from the queue. It returns nil when
// the queue is empty.
func (c *QueueClient) ClaimJob(ctx context.Context) (*Job, error) {
	var claimResp struct {
		NoJobs bool `json:"noJobs"`
		Job
	}
	if err := c.post(ctx, "/api/v1/jobs/claim", struct{}{}, &claimResp); err != nil {
		return nil, err
	}
	if claimResp.NoJobs {
		return nil, nil
	}
	return &claimResp.Job, nil
}

// SubmitResult submits the answers for a job
func (c *QueueClient) SubmitResult(ctx context.Context, result *JobResult) error {
	var submitResp struct {
		Accepted bool   `json:"accepted"`
		Error    string `json:"error"`
	}
	if err := c.post(ctx, "/api/v1/jobs/submit", result, &submitResp); err != nil {
		return err
	}
	if !submitResp.Accepted {
		return fmt.Errorf("%w: %s", ErrRejected, submitResp.Error)
	}
	return nil
}

// SendHeartbeat tells the queue the worker is still processing
func (c *QueueClient) SendHeartbeat(ctx context.Context, jobID string, progress *HeartbeatProgress) error {
	req := struct {
		JobID string `json:"jobId"`
		*HeartbeatProgress
	}{jobID, progress}
	var hbResp struct {
		Continue bool `json:"continue"`
	}
	if err := c.post(ctx, "/api/v1/jobs/heartbeat", req, &hbResp); err != nil {
		return err
	}
	if !hbResp.Continue {
		return ErrStopRequested
	}
	return nil
}
