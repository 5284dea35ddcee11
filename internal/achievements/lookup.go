package achievements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valory-xyz/olas-predict/pkg/cache"
	"go.uber.org/zap"
)

const (
	// AgentPolystrat is the only agent with achievement cards.
	AgentPolystrat = "polystrat"
	// TypePayout is the payout achievement card.
	TypePayout = "payout"
)

// IsKnownAgent reports whether agent (case-insensitive) has achievement pages.
func IsKnownAgent(agent string) bool {
	return strings.EqualFold(agent, AgentPolystrat)
}

// IsKnownType reports whether typ is a supported achievement type.
func IsKnownType(typ string) bool {
	return typ == TypePayout
}

// LookupEntry describes one pre-rendered achievement image.
type LookupEntry struct {
	IPFSURL   string `json:"ipfsUrl,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"` // RFC 3339
}

// Lookup maps bet IDs to their achievement entries.
type Lookup map[string]LookupEntry

// LookupFileName returns "{prefix}/{lower(agent)}/{type}.json".
func LookupFileName(prefix string, agent string, typ string) string {
	return fmt.Sprintf("%s/%s/%s.json", prefix, strings.ToLower(agent), typ)
}

// Resolver reads achievement lookup files from blob storage.
type Resolver struct {
	blobs        BlobStore
	cache        cache.Cache
	cacheTTL     time.Duration
	prefix       string
	defaultImage string
	logger       *zap.Logger
}

// ResolverConfig holds resolver configuration.
type ResolverConfig struct {
	Blobs        BlobStore
	Cache        cache.Cache // optional
	CacheTTL     time.Duration
	Prefix       string
	DefaultImage string
	Logger       *zap.Logger
}

// NewResolver creates a new lookup resolver.
func NewResolver(cfg *ResolverConfig) (*Resolver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Blobs == nil {
		return nil, fmt.Errorf("blob store cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Resolver{
		blobs:        cfg.Blobs,
		cache:        cfg.Cache,
		cacheTTL:     cfg.CacheTTL,
		prefix:       cfg.Prefix,
		defaultImage: cfg.DefaultImage,
		logger:       cfg.Logger,
	}, nil
}

// LookupFile loads the lookup file for agent and type.
// Returns (nil, nil) when no such file is listed or its download is not OK.
func (r *Resolver) LookupFile(ctx context.Context, agent string, typ string) (Lookup, error) {
	name := LookupFileName(r.prefix, agent, typ)

	blobs, err := r.blobs.List(ctx, name, 1)
	if err != nil {
		return nil, fmt.Errorf("list blobs %s: %w", name, err)
	}
	if len(blobs) == 0 {
		return nil, nil
	}

	body, err := r.blobs.Download(ctx, blobs[0].URL)
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		r.logger.Warn("achievement-lookup-download-not-ok",
			zap.String("file", name),
			zap.Int("status", statusErr.StatusCode))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", name, err)
	}

	var lookup Lookup
	err = json.Unmarshal(body, &lookup)
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", name, err)
	}

	return lookup, nil
}

// OGImage returns the share image for a bet's achievement, or the default
// image when the agent, type or bet is unknown or the lookup fails.
func (r *Resolver) OGImage(ctx context.Context, agent string, typ string, betID string) string {
	if !IsKnownAgent(agent) || !IsKnownType(typ) || betID == "" {
		return r.defaultImage
	}

	cacheKey := cache.Key("ogimage", strings.ToLower(agent), typ, betID)
	if r.cache != nil {
		if cached, ok := r.cache.Get(cacheKey); ok {
			if image, ok := cached.(string); ok {
				return image
			}
		}
	}

	lookup, err := r.LookupFile(ctx, agent, typ)
	if err != nil {
		LookupErrorsTotal.Inc()
		r.logger.Warn("achievement-lookup-failed",
			zap.String("agent", agent),
			zap.String("type", typ),
			zap.Error(err))
		return r.defaultImage
	}

	entry, ok := lookup[betID]
	if !ok || entry.IPFSURL == "" {
		return r.defaultImage
	}

	if r.cache != nil {
		r.cache.Set(cacheKey, entry.IPFSURL, r.cacheTTL)
	}

	return entry.IPFSURL
}

// DefaultImage returns the fallback share image.
func (r *Resolver) DefaultImage() string {
	return r.defaultImage
}
