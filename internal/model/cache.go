package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"fakenews/internal/classifier"
)

// Cache stores serialized distributions.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedPredictor memoizes distributions per model and input text, and
// collapses concurrent identical requests into one inference. Cache errors
// are logged and bypassed.
type CachedPredictor struct {
	next      classifier.Predictor
	cache     Cache
	namespace string
	ttl       time.Duration
	group     singleflight.Group
	logger    *slog.Logger
}

func NewCachedPredictor(next classifier.Predictor, cache Cache, namespace string, ttl time.Duration, logger *slog.Logger) *CachedPredictor {
	return &CachedPredictor{
		next:      next,
		cache:     cache,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger.With("component", "prediction_cache"),
	}
}

func (c *CachedPredictor) Predict(ctx context.Context, text string) (classifier.Distribution, error) {
	key := c.key(text)

	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "cache get failed", "error", err)
	} else if ok {
		var dist classifier.Distribution
		if err := json.Unmarshal(raw, &dist); err == nil {
			return dist, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt cache entry", "key", key)
	}

	// The shared call outlives any single caller; each caller still stops
	// waiting when its own ctx is done.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		dist, err := c.next.Predict(shared, text)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(dist); err == nil {
			if err := c.cache.Set(shared, key, raw, c.ttl); err != nil {
				c.logger.WarnContext(shared, "cache set failed", "error", err)
			}
		}
		return dist, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(classifier.Distribution), nil
	}
}

func (c *CachedPredictor) key(text string) string {
	sum := sha256.Sum256([]byte(c.namespace + "|" + text))
	return "prediction:" + hex.EncodeToString(sum[:])
}
