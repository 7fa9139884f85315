// Package store wraps the object storage HTTP API used for uploaded
// documents, review templates, and exported artifacts.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client communicates with the object store HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ObjectInfo describes one stored object in a listing.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// PutObject stores data under bucket/key.
func (c *Client) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.objectURL(bucket, key), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put object %s/%s: status %d: %s", bucket, key, resp.StatusCode, string(respBody))
	}
	return nil
}

// GetObject retrieves an object's bytes. A missing object returns
// (nil, nil).
func (c *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL(bucket, key), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get object %s/%s: status %d: %s", bucket, key, resp.StatusCode, string(respBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// DeleteObject removes an object. Deleting a missing object is not an
// error.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(bucket, key), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete object %s/%s: status %d: %s", bucket, key, resp.StatusCode, string(respBody))
	}
	return nil
}

// ListObjects scans a bucket under the given prefix.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string, limit int) ([]ObjectInfo, error) {
	u := c.baseURL + "/objects/" + url.PathEscape(bucket) + "?prefix=" + url.QueryEscape(prefix)
	if limit > 0 {
		u += fmt.Sprintf("&limit=%d", limit)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("list objects %s/%s: status %d: %s", bucket, prefix, resp.StatusCode, string(respBody))
	}

	var result struct {
		Objects []ObjectInfo `json:"objects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return result.Objects, nil
}

// LatestObject returns the most recently modified object under the
// prefix, skipping the folder marker object whose key equals the
// prefix itself. An empty prefix listing is an error.
func (c *Client) LatestObject(ctx context.Context, bucket, prefix string) (*ObjectInfo, error) {
	objects, err := c.ListObjects(ctx, bucket, prefix, 0)
	if err != nil {
		return nil, err
	}

	var latest *ObjectInfo
	for i := range objects {
		if objects[i].Key == prefix {
			continue
		}
		if latest == nil || objects[i].LastModified.After(latest.LastModified) {
			latest = &objects[i]
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no objects found under %s/%s", bucket, prefix)
	}
	return latest, nil
}

// presignRequest is the body for POST /presign.
type presignRequest struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// PresignPut requests a time-limited upload URL that pins the given
// content type.
func (c *Client) PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error) {
	body, err := json.Marshal(presignRequest{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType,
		ExpiresIn:   int64(expires.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("marshal presign request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/presign", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("presign %s/%s: status %d: %s", bucket, key, resp.StatusCode, string(respBody))
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode presign response: %w", err)
	}
	return result.URL, nil
}

func (c *Client) objectURL(bucket, key string) string {
	return c.baseURL + "/objects/" + url.PathEscape(bucket) + "/" + key
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
