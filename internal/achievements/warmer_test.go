package achievements

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valory-xyz/olas-predict/internal/testutil"
	"go.uber.org/zap"
)

var warmNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

type stubLookups struct {
	lookup Lookup
	err    error
}

func (s *stubLookups) LookupFile(_ context.Context, _ string, _ string) (Lookup, error) {
	return s.lookup, s.err
}

type pageServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	failing  map[string]int
}

func newPageServer(failing map[string]int) *pageServer {
	ps := &pageServer{failing: failing}
	ps.Server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		betID := r.URL.Query().Get("betId")

		ps.mu.Lock()
		ps.requests = append(ps.requests, r.URL.Path+"?"+r.URL.RawQuery)
		ps.mu.Unlock()

		if status, ok := ps.failing[betID]; ok {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte("<html></html>"))
	}))
	return ps
}

func (ps *pageServer) domain() string {
	return strings.TrimPrefix(ps.URL, "https://")
}

func newTestWarmer(t *testing.T, lookups LookupLoader, ps *pageServer, recorder RunRecorder) *Warmer {
	t.Helper()

	warmer, err := NewWarmer(&WarmerConfig{
		Lookups:     lookups,
		Recorder:    recorder,
		HTTPClient:  ps.Client(),
		Domain:      ps.domain(),
		Lookback:    time.Hour,
		Concurrency: 2,
		Now:         func() time.Time { return warmNow },
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	return warmer
}

func TestPageURL(t *testing.T) {
	got := PageURL("olas.network", "polystrat", "payout", "0xabc")
	assert.Equal(t, "https://olas.network/polystrat/achievement?type=payout&betId=0xabc", got)
}

func TestRecentBetIDs(t *testing.T) {
	cutoff := warmNow.Add(-time.Hour)
	lookup := Lookup{
		"old":         {CreatedAt: "2025-03-10T14:00:00Z"},
		"at-cutoff":   {CreatedAt: "2025-03-10T14:30:00Z"},
		"recent":      {CreatedAt: "2025-03-10T15:00:00Z"},
		"no-date":     {},
		"bad-date":    {CreatedAt: "yesterday"},
		"other-zone":  {CreatedAt: "2025-03-10T16:45:00+02:00"},
		"older-local": {CreatedAt: "2025-03-10T15:00:00+02:00"},
	}

	got := RecentBetIDs(lookup, cutoff)
	assert.Equal(t, []string{"at-cutoff", "bad-date", "no-date", "other-zone", "recent"}, got)
}

func TestNewWarmer_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *WarmerConfig
	}{
		{name: "nil-config", cfg: nil},
		{name: "missing-lookups", cfg: &WarmerConfig{Logger: zap.NewNop(), Concurrency: 1}},
		{name: "missing-logger", cfg: &WarmerConfig{Lookups: &stubLookups{}, Concurrency: 1}},
		{name: "zero-concurrency", cfg: &WarmerConfig{Lookups: &stubLookups{}, Logger: zap.NewNop()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWarmer(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestWarmer_Warm(t *testing.T) {
	ps := newPageServer(map[string]int{"0xfail": http.StatusInternalServerError})
	defer ps.Close()

	lookups := &stubLookups{lookup: Lookup{
		"0xa":    {IPFSURL: "ipfs://a", CreatedAt: "2025-03-10T15:00:00Z"},
		"0xb":    {IPFSURL: "ipfs://b"},
		"0xfail": {CreatedAt: "2025-03-10T15:10:00Z"},
		"0xold":  {CreatedAt: "2025-03-01T00:00:00Z"},
	}}
	storage := testutil.NewMockStorage()

	warmer := newTestWarmer(t, lookups, ps, storage)

	result, err := warmer.Warm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{
		PageURL(ps.domain(), "polystrat", "payout", "0xa"),
		PageURL(ps.domain(), "polystrat", "payout", "0xb"),
	}, result.Warmed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "0xfail")
	assert.Contains(t, result.Errors[0], "500")

	ps.mu.Lock()
	assert.Len(t, ps.requests, 3)
	for _, req := range ps.requests {
		assert.True(t, strings.HasPrefix(req, "/polystrat/achievement?"))
	}
	ps.mu.Unlock()

	runs := storage.GetRuns()
	require.Len(t, runs, 1)
	assert.NotEmpty(t, runs[0].ID)
	assert.Equal(t, "polystrat", runs[0].Agent)
	assert.Equal(t, "payout", runs[0].Type)
	assert.Equal(t, 2, runs[0].Success)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, warmNow, runs[0].StartedAt)
}

func TestWarmer_Warm_NoLookupFile(t *testing.T) {
	ps := newPageServer(nil)
	defer ps.Close()

	storage := testutil.NewMockStorage()
	warmer := newTestWarmer(t, &stubLookups{}, ps, storage)

	result, err := warmer.Warm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Warmed)
	assert.Equal(t, []string{"No lookup file found for polystrat payout"}, result.Errors)
	assert.Empty(t, storage.GetRuns())
}

func TestWarmer_Warm_LookupDownloadNotOK(t *testing.T) {
	api := testutil.NewMockBlobAPI()
	defer api.Close()
	api.SetFile("achievements/polystrat/payout.json", `{"0xa": {}}`)
	api.SetFileStatus("achievements/polystrat/payout.json", http.StatusNotFound)

	ps := newPageServer(nil)
	defer ps.Close()

	storage := testutil.NewMockStorage()
	resolver := newTestResolver(t, NewBlobClient(api.URL, "", zap.NewNop()), nil)
	warmer := newTestWarmer(t, resolver, ps, storage)

	result, err := warmer.Warm(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Warmed)
	assert.Equal(t, []string{"No lookup file found for polystrat payout"}, result.Errors)
	assert.Empty(t, storage.GetRuns())
	assert.Empty(t, ps.requests)
}

func TestWarmer_Warm_LookupError(t *testing.T) {
	ps := newPageServer(nil)
	defer ps.Close()

	warmer := newTestWarmer(t, &stubLookups{err: errors.New("blob api down")}, ps, nil)

	_, err := warmer.Warm(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blob api down")
}

func TestWarmer_Warm_UnreachableDomain(t *testing.T) {
	ps := newPageServer(nil)
	ps.Close()

	lookups := &stubLookups{lookup: Lookup{"0xa": {}}}
	warmer := newTestWarmer(t, lookups, ps, nil)

	result, err := warmer.Warm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "Error warming "))
}
