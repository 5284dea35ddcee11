package graphql

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valory-xyz/olas-predict/pkg/types"
	"go.uber.org/zap"
)

type betData struct {
	Bet *struct {
		ID string `json:"id"`
	} `json:"bet"`
}

func newTestClient(endpoint string) *Client {
	return NewClient(&Config{
		Endpoint: endpoint,
		Logger:   zap.NewNop(),
	})
}

func TestClient_Query_Success(t *testing.T) {
	var gotReq request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"bet":{"id":"0xbet"}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	var out betData
	err := client.Query(context.Background(), "getBet", "query { bet }", map[string]interface{}{"id": "0xbet"}, &out)
	require.NoError(t, err)

	require.NotNil(t, out.Bet)
	assert.Equal(t, "0xbet", out.Bet.ID)
	assert.Equal(t, "query { bet }", gotReq.Query)
	assert.Equal(t, "0xbet", gotReq.Variables["id"])
}

func TestClient_Query_NullData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "null-data", body: `{"data":null}`},
		{name: "null-field", body: `{"data":{"bet":null}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			var out betData
			err := newTestClient(server.URL).Query(context.Background(), "getBet", "q", nil, &out)
			require.NoError(t, err)
			assert.Nil(t, out.Bet)
		})
	}
}

func TestClient_Query_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "server-error",
			status:     http.StatusInternalServerError,
			body:       "boom",
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "boom",
		},
		{
			name:       "no-content",
			status:     http.StatusNoContent,
			wantStatus: http.StatusNoContent,
			wantMsg:    "no content",
		},
		{
			name:       "gateway-message",
			status:     http.StatusOK,
			body:       `{"message":"rate limited"}`,
			wantStatus: http.StatusOK,
			wantMsg:    "rate limited",
		},
		{
			name:       "gateway-message-with-null-data",
			status:     http.StatusOK,
			body:       `{"message":"rate limited","data":null}`,
			wantStatus: http.StatusOK,
			wantMsg:    "endpoint error: rate limited",
		},
		{
			name:       "empty-errors-array",
			status:     http.StatusOK,
			body:       `{"errors":[]}`,
			wantStatus: http.StatusOK,
			wantMsg:    "empty errors array",
		},
		{
			name:       "empty-errors-array-with-data",
			status:     http.StatusOK,
			body:       `{"data":{"bet":null},"errors":[]}`,
			wantStatus: http.StatusOK,
			wantMsg:    "empty errors array",
		},
		{
			name:       "graphql-errors",
			status:     http.StatusOK,
			body:       `{"errors":[{"message":"bad field"},{"message":"other","path":["bet"]}]}`,
			wantStatus: http.StatusOK,
			wantMsg:    "bad field; other (path: [bet])",
		},
		{
			name:       "invalid-json",
			status:     http.StatusOK,
			body:       `not json`,
			wantStatus: http.StatusOK,
			wantMsg:    "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			var out betData
			err := newTestClient(server.URL).Query(context.Background(), "getBet", "q", nil, &out)
			require.Error(t, err)

			var upstreamErr *types.UpstreamError
			require.True(t, errors.As(err, &upstreamErr))
			assert.Equal(t, tt.wantStatus, upstreamErr.StatusCode)
			assert.Equal(t, "getBet", upstreamErr.Operation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClient_Query_NotConfigured(t *testing.T) {
	var out betData
	err := newTestClient("").Query(context.Background(), "getBet", "q", nil, &out)
	require.Error(t, err)
	assert.True(t, types.IsUpstream(err))
	assert.Contains(t, err.Error(), "not configured")
}

func TestClient_Query_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out betData
	err := newTestClient(server.URL).Query(ctx, "getBet", "q", nil, &out)
	require.Error(t, err)
	assert.True(t, types.IsUpstream(err))
	assert.ErrorIs(t, err, context.Canceled)
}
