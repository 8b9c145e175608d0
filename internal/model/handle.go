// Package model owns the pretrained text-classification model: loading it
// exactly once, serving inference through it and releasing it on shutdown.
package model

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"fakenews/internal/classifier"
)

// State is the load state of a Handle.
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Loader builds the predictor. It runs at most once per Handle.
type Loader func(ctx context.Context) (classifier.Predictor, error)

// Handle holds the loaded predictor. It moves from StateUninitialized to
// either StateReady or StateFailed exactly once, in Init.
type Handle struct {
	name   string
	loader Loader
	logger *slog.Logger

	once      sync.Once
	predictor classifier.Predictor
	err       error
	state     atomic.Int32
}

// NewHandle creates an unloaded Handle for the named model.
func NewHandle(name string, loader Loader, logger *slog.Logger) *Handle {
	return &Handle{
		name:   name,
		loader: loader,
		logger: logger.With("component", "model", "model_name", name),
	}
}

// Init runs the loader on first call; later calls return the first result.
// A failed load leaves the handle permanently unavailable.
func (h *Handle) Init(ctx context.Context) error {
	h.once.Do(func() {
		h.logger.Info("loading model")

		p, err := h.loader(ctx)
		if err == nil && p == nil {
			err = errors.New("loader returned no predictor")
		}
		if err != nil {
			h.err = err
			h.state.Store(int32(StateFailed))
			h.logger.Error("model load failed", "error", err)
			return
		}

		h.predictor = p
		h.state.Store(int32(StateReady))
		h.logger.Info("model ready")
	})
	return h.err
}

// Predictor implements classifier.Source.
func (h *Handle) Predictor() (classifier.Predictor, bool) {
	if h.State() != StateReady {
		return nil, false
	}
	return h.predictor, true
}

func (h *Handle) State() State {
	return State(h.state.Load())
}

func (h *Handle) Ready() bool {
	return h.State() == StateReady
}

func (h *Handle) Name() string {
	return h.name
}

// Close releases the predictor if it holds resources.
func (h *Handle) Close() error {
	if !h.Ready() {
		return nil
	}
	if c, ok := h.predictor.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
