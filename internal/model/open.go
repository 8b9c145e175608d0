package model

import (
	"log/slog"
	"time"

	"fakenews/internal/classifier"
	"fakenews/internal/config"
)

// Open returns an unloaded Handle for the configured HuggingFace model. When
// cache is non-nil, predictions are memoized for ttl.
func Open(cfg config.ModelConfig, cache Cache, ttl time.Duration, logger *slog.Logger) *Handle {
	hf := NewHuggingFace(cfg.BaseURL, cfg.Name, cfg.APIToken, cfg.HTTPTimeout)

	var wrap func(classifier.Predictor) classifier.Predictor
	if cache != nil {
		wrap = func(p classifier.Predictor) classifier.Predictor {
			return NewCachedPredictor(p, cache, cfg.Name, ttl, logger)
		}
	}

	return NewHandle(cfg.Name, HuggingFaceLoader(hf, cfg.Warmup, wrap), logger)
}
