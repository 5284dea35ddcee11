package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/valory-xyz/olas-predict/pkg/types"
)

// MockSource is an in-memory bet source that records the order of calls.
type MockSource struct {
	Bets           map[string]*types.Bet
	Participants   map[string]*types.MarketParticipant
	BetErr         error
	ParticipantErr error

	mu    sync.Mutex
	calls []string
}

// NewMockSource creates an empty mock source.
func NewMockSource() *MockSource {
	return &MockSource{
		Bets:         make(map[string]*types.Bet),
		Participants: make(map[string]*types.MarketParticipant),
	}
}

// Bet returns the stored bet or (nil, nil).
func (m *MockSource) Bet(_ context.Context, id string) (*types.Bet, error) {
	m.record("bet:" + id)
	if m.BetErr != nil {
		return nil, m.BetErr
	}
	return m.Bets[id], nil
}

// MarketParticipant returns the stored participant or (nil, nil).
func (m *MockSource) MarketParticipant(_ context.Context, id string) (*types.MarketParticipant, error) {
	m.record("participant:" + id)
	if m.ParticipantErr != nil {
		return nil, m.ParticipantErr
	}
	return m.Participants[id], nil
}

// Calls returns the recorded calls in order.
func (m *MockSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockSource) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// MockSubgraph is an httptest GraphQL server serving bets, participants and
// daily performance rows. Setting FailStatus makes every request fail.
type MockSubgraph struct {
	*httptest.Server

	mu           sync.RWMutex
	Bets         map[string]*types.Bet
	Participants map[string]*types.MarketParticipant
	Performances []types.DailyAgentPerformance
	FailStatus   int
	Requests     int
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// NewMockSubgraph starts a mock subgraph server. Callers must Close it.
func NewMockSubgraph() *MockSubgraph {
	mock := &MockSubgraph{
		Bets:         make(map[string]*types.Bet),
		Participants: make(map[string]*types.MarketParticipant),
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// SetFailStatus makes subsequent requests fail with the given HTTP status (0 disables).
func (m *MockSubgraph) SetFailStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailStatus = status
}

// SetPerformances replaces the daily performance rows.
func (m *MockSubgraph) SetPerformances(rows []types.DailyAgentPerformance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Performances = rows
}

// RequestCount returns the number of requests served.
func (m *MockSubgraph) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Requests
}

func (m *MockSubgraph) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.Requests++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailStatus != 0 {
		http.Error(w, "subgraph unavailable", m.FailStatus)
		return
	}

	body, _ := io.ReadAll(r.Body)
	var req graphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	id, _ := req.Variables["id"].(string)
	data := map[string]interface{}{}

	switch {
	case strings.Contains(req.Query, "marketParticipant("):
		data["marketParticipant"] = m.Participants[id]
	case strings.Contains(req.Query, "bet("):
		data["bet"] = m.Bets[id]
	case strings.Contains(req.Query, "dailyAgentPerformances("):
		data["dailyAgentPerformances"] = m.Performances
	default:
		writeJSON(w, map[string]interface{}{
			"errors": []map[string]string{{"message": "unknown query"}},
		})
		return
	}

	writeJSON(w, map[string]interface{}{"data": data})
}

// MockBlobAPI serves a blob list endpoint and the listed lookup files.
// Files maps pathname to raw JSON content.
type MockBlobAPI struct {
	*httptest.Server

	mu       sync.RWMutex
	Files    map[string]string
	Statuses map[string]int // download status overrides by pathname
	Token    string         // expected bearer token, empty accepts any
}

type blob struct {
	URL      string `json:"url"`
	Pathname string `json:"pathname"`
}

// NewMockBlobAPI starts a mock blob API. Callers must Close it.
func NewMockBlobAPI() *MockBlobAPI {
	mock := &MockBlobAPI{
		Files:    make(map[string]string),
		Statuses: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", mock.handleList)
	mux.HandleFunc("/files/", mock.handleFile)

	mock.Server = httptest.NewServer(mux)
	return mock
}

// SetFile stores a lookup file under pathname.
func (m *MockBlobAPI) SetFile(pathname string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[pathname] = content
}

// SetFileStatus makes downloads of pathname answer with status. The file
// stays listed.
func (m *MockBlobAPI) SetFileStatus(pathname string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statuses[pathname] = status
}

func (m *MockBlobAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if m.Token != "" && r.Header.Get("Authorization") != "Bearer "+m.Token {
		http.Error(w, "unauthorized", http.StatusForbidden)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := r.URL.Query().Get("prefix")
	blobs := make([]blob, 0)
	for pathname := range m.Files {
		if strings.HasPrefix(pathname, prefix) {
			blobs = append(blobs, blob{URL: m.URL + "/files/" + pathname, Pathname: pathname})
		}
	}

	writeJSON(w, map[string]interface{}{"blobs": blobs})
}

func (m *MockBlobAPI) handleFile(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pathname := strings.TrimPrefix(r.URL.Path, "/files/")
	if status, ok := m.Statuses[pathname]; ok {
		w.WriteHeader(status)
		return
	}

	content, ok := m.Files[pathname]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(content))
}

// MockStorage records live agent samples and warm runs in memory.
type MockStorage struct {
	mu      sync.Mutex
	Samples []*types.LiveAgentsSample
	Runs    []*types.WarmRun
}

// NewMockStorage creates a new mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// StoreLiveAgentsSample stores a copy of the sample.
func (m *MockStorage) StoreLiveAgentsSample(_ context.Context, sample *types.LiveAgentsSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sampleCopy := *sample
	m.Samples = append(m.Samples, &sampleCopy)
	return nil
}

// StoreWarmRun stores a copy of the run.
func (m *MockStorage) StoreWarmRun(_ context.Context, run *types.WarmRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	runCopy := *run
	m.Runs = append(m.Runs, &runCopy)
	return nil
}

// Close is a no-op for mock storage.
func (m *MockStorage) Close() error {
	return nil
}

// GetSamples returns all stored samples.
func (m *MockStorage) GetSamples() []*types.LiveAgentsSample {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.LiveAgentsSample, len(m.Samples))
	copy(out, m.Samples)
	return out
}

// GetRuns returns all stored warm runs.
func (m *MockStorage) GetRuns() []*types.WarmRun {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.WarmRun, len(m.Runs))
	copy(out, m.Runs)
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
