package healthprobe

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.HandlerFunc, path string) (int, HealthResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestNew(t *testing.T) {
	hc := New()

	require.NotNil(t, hc)
	assert.WithinDuration(t, time.Now(), hc.startTime, time.Second)
	assert.False(t, hc.ready.Load())
}

func TestSetReady_Toggle(t *testing.T) {
	hc := New()

	hc.SetReady(true)
	assert.True(t, hc.ready.Load())

	hc.SetReady(false)
	assert.False(t, hc.ready.Load())
}

func TestHealth_AlwaysReturnsOK(t *testing.T) {
	tests := []struct {
		name  string
		ready bool
	}{
		{name: "not-ready", ready: false},
		{name: "ready", ready: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New()
			hc.SetReady(tt.ready)
			hc.AddCheck("failing", func() error { return errors.New("down") })

			code, resp := serve(t, hc.Health(), "/health")
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "healthy", resp.Status)
			assert.NotEmpty(t, resp.Uptime)
		})
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name        string
		ready       bool
		checks      map[string]Check
		wantCode    int
		wantStatus  string
		wantMessage string
		wantChecks  map[string]string
	}{
		{
			name:        "starting",
			ready:       false,
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  "not_ready",
			wantMessage: "application is starting",
		},
		{
			name:       "ready-without-checks",
			ready:      true,
			wantCode:   http.StatusOK,
			wantStatus: "ready",
		},
		{
			name:  "ready-with-passing-checks",
			ready: true,
			checks: map[string]Check{
				"live-agents": func() error { return nil },
			},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantChecks: map[string]string{"live-agents": "ok"},
		},
		{
			name:  "failing-check",
			ready: true,
			checks: map[string]Check{
				"storage":     func() error { return nil },
				"live-agents": func() error { return errors.New("no successful fetch yet") },
			},
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  "not_ready",
			wantMessage: "live-agents check failed",
			wantChecks: map[string]string{
				"storage":     "ok",
				"live-agents": "no successful fetch yet",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := New()
			hc.SetReady(tt.ready)
			for name, check := range tt.checks {
				hc.AddCheck(name, check)
			}

			code, resp := serve(t, hc.Ready(), "/ready")
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}
