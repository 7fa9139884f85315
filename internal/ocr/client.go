// Package ocr talks to the layout-analysis OCR service. The service
// runs asynchronously: a start call returns a job ID, the job is
// polled until it settles, and the resulting block set is fetched in
// pages.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/procdocs/sopstruct/internal/block"
)

// Client communicates with the OCR HTTP API.
type Client struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	httpClient   *http.Client
}

func NewClient(baseURL, apiKey string, pollInterval time.Duration) *Client {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		pollInterval: pollInterval,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// StartRequest is the body for POST /analysis.
type StartRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type startResponse struct {
	JobID string `json:"JobId"`
}

// Job statuses reported by GET /analysis/{jobID}.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusSucceeded  = "SUCCEEDED"
	StatusFailed     = "FAILED"
)

type statusResponse struct {
	JobStatus     string       `json:"JobStatus"`
	StatusMessage string       `json:"StatusMessage,omitempty"`
	Blocks        []block.Wire `json:"Blocks,omitempty"`
	NextToken     string       `json:"NextToken,omitempty"`
}

// StartAnalysis submits a stored document for layout analysis and
// returns the job ID to poll.
func (c *Client) StartAnalysis(ctx context.Context, bucket, key string) (string, error) {
	body, err := json.Marshal(StartRequest{Bucket: bucket, Key: key})
	if err != nil {
		return "", fmt.Errorf("marshal start request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analysis", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("start analysis: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("start analysis %s/%s: status %d: %s", bucket, key, resp.StatusCode, string(respBody))
	}

	var started startResponse
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		return "", fmt.Errorf("decode start response: %w", err)
	}
	if started.JobID == "" {
		return "", fmt.Errorf("start analysis %s/%s: empty job id", bucket, key)
	}
	return started.JobID, nil
}

// WaitForCompletion polls the job at the client's interval until it
// reaches SUCCEEDED or FAILED, or the context is canceled. A FAILED
// job is returned as an error carrying the service's status message.
func (c *Client) WaitForCompletion(ctx context.Context, jobID string) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.getStatus(ctx, jobID, "")
		if err != nil {
			return err
		}
		switch status.JobStatus {
		case StatusSucceeded:
			return nil
		case StatusFailed:
			return fmt.Errorf("analysis job %s failed: %s", jobID, status.StatusMessage)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// FetchBlocks pages through the completed job's block set and decodes
// it into a graph.
func (c *Client) FetchBlocks(ctx context.Context, jobID string) (*block.Graph, error) {
	var wires []block.Wire
	token := ""
	for {
		status, err := c.getStatus(ctx, jobID, token)
		if err != nil {
			return nil, err
		}
		if status.JobStatus != StatusSucceeded {
			return nil, fmt.Errorf("fetch blocks for job %s: status %s", jobID, status.JobStatus)
		}
		wires = append(wires, status.Blocks...)
		if status.NextToken == "" {
			break
		}
		token = status.NextToken
	}
	return block.NewGraph(wires), nil
}

func (c *Client) getStatus(ctx context.Context, jobID, nextToken string) (*statusResponse, error) {
	u := c.baseURL + "/analysis/" + jobID
	if nextToken != "" {
		u += "?next_token=" + url.QueryEscape(nextToken)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get job %s: status %d: %s", jobID, resp.StatusCode, string(respBody))
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode job status: %w", err)
	}
	return &status, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
