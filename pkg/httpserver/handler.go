package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/valory-xyz/olas-predict/internal/achievements"
	"github.com/valory-xyz/olas-predict/internal/bets"
	"github.com/valory-xyz/olas-predict/pkg/types"
	"go.uber.org/zap"
)

// BetResolver resolves display-ready bets.
type BetResolver interface {
	Get(ctx context.Context, model bets.Model, betID string) types.Result[*types.TransformedBet]
}

// LiveAgentsProvider returns the 7-day live agents average.
type LiveAgentsProvider interface {
	Get(ctx context.Context) types.Result[int]
}

// OGImageResolver resolves share images for achievement pages.
type OGImageResolver interface {
	OGImage(ctx context.Context, agent string, typ string, betID string) string
}

// PageWarmer prerenders recent achievement pages.
type PageWarmer interface {
	Warm(ctx context.Context) (*achievements.WarmResult, error)
}

// Handler serves the JSON API.
type Handler struct {
	bets       BetResolver
	liveAgents LiveAgentsProvider
	ogImages   OGImageResolver
	warmer     PageWarmer
	cronSecret string
	logger     *zap.Logger
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AchievementResponse is the payload behind an achievement card page.
type AchievementResponse struct {
	Agent   string                `json:"agent"`
	Type    string                `json:"type"`
	OGImage string                `json:"ogImage"`
	Bet     *types.TransformedBet `json:"bet"`
}

// OGImageResponse is the share image for an achievement page.
type OGImageResponse struct {
	OGImage string `json:"ogImage"`
}

// LiveAgentsResponse is the live agents banner payload.
type LiveAgentsResponse struct {
	Status types.Status `json:"status"`
	Value  *int         `json:"value,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// HandleBet handles GET /api/bets/{id}?model=polymarket|polystrat.
func (h *Handler) HandleBet(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")

	model := bets.ModelPolymarket
	if m := r.URL.Query().Get("model"); m != "" {
		model = bets.Model(m)
		if model != bets.ModelPolymarket && model != bets.ModelPolystrat {
			h.writeError(w, "unknown model: "+m, http.StatusBadRequest)
			return
		}
	}

	h.logger.Debug("bet-request-received",
		zap.String("bet-id", betID),
		zap.String("model", string(model)))

	result := h.bets.Get(r.Context(), model, betID)
	if !result.IsSuccess() {
		h.writeResultError(w, result.Status, result.Err, "bet not found")
		return
	}

	h.writeJSON(w, http.StatusOK, result.Value)
}

// HandleAchievement handles GET /api/agents/{agent}/achievement?type=payout&betId=...
func (h *Handler) HandleAchievement(w http.ResponseWriter, r *http.Request) {
	agent, typ, ok := h.achievementParams(w, r)
	if !ok {
		return
	}

	betID := r.URL.Query().Get("betId")
	if betID == "" {
		h.writeError(w, "missing required query parameter: betId", http.StatusBadRequest)
		return
	}

	result := h.bets.Get(r.Context(), bets.ModelPolystrat, betID)
	if !result.IsSuccess() {
		h.writeResultError(w, result.Status, result.Err, "bet not found")
		return
	}

	h.writeJSON(w, http.StatusOK, AchievementResponse{
		Agent:   agent,
		Type:    typ,
		OGImage: h.ogImages.OGImage(r.Context(), agent, typ, betID),
		Bet:     result.Value,
	})
}

// HandleOGImage handles GET /api/agents/{agent}/achievement/og-image?type=payout&betId=...
// Unknown inputs resolve to the default image rather than an error.
func (h *Handler) HandleOGImage(w http.ResponseWriter, r *http.Request) {
	agent := chi.URLParam(r, "agent")
	query := r.URL.Query()

	image := h.ogImages.OGImage(r.Context(), agent, query.Get("type"), query.Get("betId"))
	h.writeJSON(w, http.StatusOK, OGImageResponse{OGImage: image})
}

// HandleLiveAgents handles GET /api/live-agents.
func (h *Handler) HandleLiveAgents(w http.ResponseWriter, r *http.Request) {
	result := h.liveAgents.Get(r.Context())
	if result.IsFailure() {
		h.logger.Warn("live-agents-unavailable", zap.Error(result.Err))
		h.writeJSON(w, http.StatusBadGateway, LiveAgentsResponse{
			Status: types.StatusFailure,
			Error:  "live agents unavailable",
		})
		return
	}

	value := result.Value
	h.writeJSON(w, http.StatusOK, LiveAgentsResponse{
		Status: types.StatusSuccess,
		Value:  &value,
	})
}

// HandlePrerender handles GET /api/prerender-achievements.
// Requires "Authorization: Bearer <CRON_SECRET>".
func (h *Handler) HandlePrerender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeJSON(w, http.StatusMethodNotAllowed, warmError("Method Not Allowed"))
		return
	}

	if h.cronSecret == "" {
		h.writeJSON(w, http.StatusInternalServerError, warmError("Server configuration error: CRON_SECRET is not set"))
		return
	}

	expected := "Bearer " + h.cronSecret
	if subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), []byte(expected)) != 1 {
		h.writeJSON(w, http.StatusUnauthorized, warmError("Unauthorized: Invalid or missing authorization token"))
		return
	}

	result, err := h.warmer.Warm(r.Context())
	if err != nil {
		h.logger.Error("prerender-achievements-failed", zap.Error(err))
		if result == nil {
			result = &achievements.WarmResult{Warmed: []string{}, Errors: []string{}}
		}
		result.Errors = append(result.Errors, "Fatal error: "+err.Error())
		h.writeJSON(w, http.StatusInternalServerError, result)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// achievementParams validates the agent path segment and type query parameter.
func (h *Handler) achievementParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	agent := strings.ToLower(chi.URLParam(r, "agent"))
	typ := r.URL.Query().Get("type")

	if !achievements.IsKnownAgent(agent) || !achievements.IsKnownType(typ) {
		h.writeError(w, "achievement not found", http.StatusNotFound)
		return "", "", false
	}

	return agent, typ, true
}

// writeResultError maps a non-success result to an HTTP status.
func (h *Handler) writeResultError(w http.ResponseWriter, status types.Status, err error, notFound string) {
	switch {
	case status == types.StatusEmpty, errors.Is(err, types.ErrNotFound):
		h.writeError(w, notFound, http.StatusNotFound)
	case types.IsDataIntegrity(err):
		h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.writeError(w, "upstream unavailable", http.StatusBadGateway)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, statusCode, ErrorResponse{Error: message})
}

func warmError(message string) *achievements.WarmResult {
	return &achievements.WarmResult{
		Warmed: []string{},
		Errors: []string{message},
	}
}
