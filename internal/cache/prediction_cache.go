package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/jon4hz/leafcheck/internal/config"
)

// PredictionCachePrefix is prepended to all prediction keys.
const PredictionCachePrefix = "prediction-"

// Prediction is a cached model result.
type Prediction struct {
	Index int `json:"index"`
}

// PredictionCache maps image content hashes to predicted class indices.
type PredictionCache struct {
	cache *PrefixedCache[Prediction]
	cfg   *config.CacheConfig
}

// NewPredictionCache creates a prediction cache. The model name is part of the key prefix
// so switching models never serves stale results.
func NewPredictionCache(cfg *config.CacheConfig, model string) *PredictionCache {
	return &PredictionCache{
		cache: NewPrefixedCache[Prediction](
			newCacheInstanceByType(cfg),
			cfg.Type,
			PredictionCachePrefix+model+"-",
		),
		cfg: cfg,
	}
}

// Key returns the cache key for image bytes.
func Key(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}

// Get looks up a cached prediction. ok is false on a miss.
func (p *PredictionCache) Get(ctx context.Context, key string) (Prediction, bool) {
	pred, err := p.cache.Get(ctx, key)
	if err != nil {
		return Prediction{}, false
	}
	return pred, true
}

// Set stores a prediction. Failures are logged, the cache is best effort.
func (p *PredictionCache) Set(ctx context.Context, key string, pred Prediction) {
	if err := p.cache.Set(ctx, key, pred, store.WithExpiration(p.cfg.TTL)); err != nil {
		log.Warn("failed to cache prediction", "error", err)
	}
}

// Clear removes all cached predictions.
func (p *PredictionCache) Clear(ctx context.Context) error {
	return p.cache.Clear(ctx)
}

// Stats holds cache statistics for the admin API.
type Stats struct {
	*codec.Stats
	CacheName string           `json:"cacheName"`
	CacheType config.CacheType `json:"cacheType"`
}

// GetStats returns the cache statistics.
func (p *PredictionCache) GetStats() *Stats {
	return &Stats{
		Stats:     p.cache.GetStats(),
		CacheName: "predictions",
		CacheType: p.cache.GetType(),
	}
}
