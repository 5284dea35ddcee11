package graphql

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valory-xyz/olas-predict/pkg/types"
	"go.uber.org/zap"
)

// Client posts GraphQL queries to a single endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds GraphQL client configuration.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewClient creates a new GraphQL client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: cfg.Logger,
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Error is a single entry of a GraphQL "errors" array.
type Error struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

type response struct {
	Data    json.RawMessage `json:"data"`
	Errors  []Error         `json:"errors"`
	Message string          `json:"message"`
}

// Query executes a query and decodes its "data" object into out.
// A null data object leaves out untouched; callers decide what absence means.
// Every failure is returned as a *types.UpstreamError.
func (c *Client) Query(ctx context.Context, operation string, query string, variables map[string]interface{}, out interface{}) error {
	start := time.Now()
	err := c.query(ctx, operation, query, variables, out)
	RequestDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		RequestErrorsTotal.WithLabelValues(operation).Inc()
		c.logger.Warn("graphql-query-failed",
			zap.String("operation", operation),
			zap.String("endpoint", c.endpoint),
			zap.Error(err))
		return err
	}

	return nil
}

func (c *Client) query(ctx context.Context, operation string, query string, variables map[string]interface{}, out interface{}) error {
	if c.endpoint == "" {
		return c.upstreamError(operation, 0, "graphql endpoint is not configured", nil)
	}

	payload, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return c.upstreamError(operation, 0, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return c.upstreamError(operation, 0, "create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "olas-predict/1.0")

	c.logger.Debug("graphql-query",
		zap.String("operation", operation),
		zap.String("endpoint", c.endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.upstreamError(operation, 0, "do request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return c.upstreamError(operation, resp.StatusCode, strings.TrimSpace(string(body)), nil)
	}

	if resp.StatusCode == http.StatusNoContent {
		return c.upstreamError(operation, resp.StatusCode, "endpoint returned no content", nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.upstreamError(operation, resp.StatusCode, "read response body", err)
	}

	var gqlResp response
	err = json.Unmarshal(body, &gqlResp)
	if err != nil {
		return c.upstreamError(operation, resp.StatusCode, "unmarshal response", err)
	}

	noData := len(gqlResp.Data) == 0 || bytes.Equal(gqlResp.Data, []byte("null"))

	// Gateways sometimes answer with {"message": "..."} and no GraphQL envelope.
	if gqlResp.Message != "" && noData && gqlResp.Errors == nil {
		return c.upstreamError(operation, resp.StatusCode, "endpoint error: "+gqlResp.Message, nil)
	}

	// A present errors key fails the query, even when the array is empty.
	if gqlResp.Errors != nil {
		if len(gqlResp.Errors) == 0 {
			return c.upstreamError(operation, resp.StatusCode, "graphql errors: empty errors array", nil)
		}
		messages := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			messages = append(messages, e.String())
		}
		return c.upstreamError(operation, resp.StatusCode, "graphql errors: "+strings.Join(messages, "; "), nil)
	}

	if noData {
		return nil
	}

	err = json.Unmarshal(gqlResp.Data, out)
	if err != nil {
		return c.upstreamError(operation, resp.StatusCode, "unmarshal data", err)
	}

	return nil
}

func (c *Client) upstreamError(operation string, status int, message string, err error) error {
	return &types.UpstreamError{
		Endpoint:   c.endpoint,
		Operation:  operation,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// String implements fmt.Stringer for log fields.
func (e Error) String() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (path: %v)", e.Message, e.Path)
}
