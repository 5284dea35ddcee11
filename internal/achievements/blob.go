package achievements

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Blob is a stored object returned by a list call.
type Blob struct {
	URL      string `json:"url"`
	Pathname string `json:"pathname"`
}

// StatusError is returned by Download when the blob URL answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// BlobStore lists and downloads blobs.
type BlobStore interface {
	List(ctx context.Context, prefix string, limit int) ([]Blob, error)
	Download(ctx context.Context, blobURL string) ([]byte, error)
}

// BlobClient talks to the Vercel Blob HTTP API.
type BlobClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBlobClient creates a new blob API client.
func NewBlobClient(baseURL string, token string, logger *zap.Logger) *BlobClient {
	return &BlobClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type listResponse struct {
	Blobs []Blob `json:"blobs"`
}

// List returns up to limit blobs whose pathname starts with prefix.
func (c *BlobClient) List(ctx context.Context, prefix string, limit int) ([]Blob, error) {
	params := url.Values{}
	params.Set("prefix", prefix)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("listing-blobs", zap.String("prefix", prefix), zap.Int("limit", limit))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var list listResponse
	err = json.NewDecoder(resp.Body).Decode(&list)
	if err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return list.Blobs, nil
}

// Download fetches a blob's content. A non-2xx response is a *StatusError.
func (c *BlobClient) Download(ctx context.Context, blobURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, blobURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}
