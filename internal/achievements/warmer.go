package achievements

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/valory-xyz/olas-predict/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LookupLoader loads lookup files; *Resolver satisfies it.
type LookupLoader interface {
	LookupFile(ctx context.Context, agent string, typ string) (Lookup, error)
}

// RunRecorder persists warm run summaries.
type RunRecorder interface {
	StoreWarmRun(ctx context.Context, run *types.WarmRun) error
}

// WarmResult summarizes one prerender run.
type WarmResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Warmed  []string `json:"warmed"`
	Errors  []string `json:"errors"`
}

// Warmer requests recently created achievement pages so their share previews are cached.
type Warmer struct {
	lookups     LookupLoader
	recorder    RunRecorder
	httpClient  *http.Client
	domain      string
	lookback    time.Duration
	concurrency int
	now         func() time.Time
	logger      *zap.Logger
}

// WarmerConfig holds warmer configuration.
type WarmerConfig struct {
	Lookups     LookupLoader
	Recorder    RunRecorder // optional
	HTTPClient  *http.Client
	Domain      string
	Lookback    time.Duration
	Concurrency int
	Now         func() time.Time // optional, defaults to time.Now
	Logger      *zap.Logger
}

// NewWarmer creates a new page warmer.
func NewWarmer(cfg *WarmerConfig) (*Warmer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Lookups == nil {
		return nil, fmt.Errorf("lookup loader cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.Concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be positive")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Warmer{
		lookups:     cfg.Lookups,
		recorder:    cfg.Recorder,
		httpClient:  httpClient,
		domain:      cfg.Domain,
		lookback:    cfg.Lookback,
		concurrency: cfg.Concurrency,
		now:         now,
		logger:      cfg.Logger,
	}, nil
}

// PageURL returns the public achievement page for a bet.
func PageURL(domain string, agent string, typ string, betID string) string {
	return fmt.Sprintf("https://%s/%s/achievement?type=%s&betId=%s",
		domain, agent, url.QueryEscape(typ), url.QueryEscape(betID))
}

// RecentBetIDs returns bet IDs without a creation time or created at or after cutoff, sorted.
// Entries with an unparseable creation time are treated as recent.
func RecentBetIDs(lookup Lookup, cutoff time.Time) []string {
	ids := make([]string, 0, len(lookup))
	for betID, entry := range lookup {
		if entry.CreatedAt == "" {
			ids = append(ids, betID)
			continue
		}

		createdAt, err := time.Parse(time.RFC3339, entry.CreatedAt)
		if err != nil || !createdAt.Before(cutoff) {
			ids = append(ids, betID)
		}
	}

	sort.Strings(ids)
	return ids
}

type pageResult struct {
	url    string
	status int
	err    error
}

// Warm requests every recent polystrat payout achievement page.
// A missing lookup file is reported in Errors, not as an error.
func (w *Warmer) Warm(ctx context.Context) (*WarmResult, error) {
	start := w.now()
	result := &WarmResult{
		Warmed: []string{},
		Errors: []string{},
	}

	lookup, err := w.lookups.LookupFile(ctx, AgentPolystrat, TypePayout)
	if err != nil {
		return result, fmt.Errorf("load lookup file: %w", err)
	}
	if lookup == nil {
		result.Errors = append(result.Errors, fmt.Sprintf("No lookup file found for %s %s", AgentPolystrat, TypePayout))
		return result, nil
	}

	betIDs := RecentBetIDs(lookup, start.Add(-w.lookback))
	pages := make([]pageResult, len(betIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for i, betID := range betIDs {
		i := i
		pageURL := PageURL(w.domain, AgentPolystrat, TypePayout, betID)
		g.Go(func() error {
			status, err := w.fetchPage(gctx, pageURL)
			pages[i] = pageResult{url: pageURL, status: status, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, page := range pages {
		switch {
		case page.err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Error warming %s: %v", page.url, page.err))
		case page.status < 200 || page.status > 299:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to warm %s: %d", page.url, page.status))
		default:
			result.Success++
			result.Warmed = append(result.Warmed, page.url)
		}
	}

	PagesWarmedTotal.WithLabelValues("success").Add(float64(result.Success))
	PagesWarmedTotal.WithLabelValues("failed").Add(float64(result.Failed))

	w.logger.Info("achievement-pages-warmed",
		zap.Int("candidates", len(betIDs)),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed))

	w.record(ctx, result, start)

	return result, nil
}

func (w *Warmer) fetchPage(ctx context.Context, pageURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

func (w *Warmer) record(ctx context.Context, result *WarmResult, start time.Time) {
	if w.recorder == nil {
		return
	}

	run := &types.WarmRun{
		ID:        uuid.New().String(),
		Agent:     AgentPolystrat,
		Type:      TypePayout,
		Success:   result.Success,
		Failed:    result.Failed,
		StartedAt: start.UTC(),
		Duration:  w.now().Sub(start),
	}

	err := w.recorder.StoreWarmRun(ctx, run)
	if err != nil {
		w.logger.Warn("warm-run-store-failed", zap.Error(err))
	}
}
