package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gyaneshwarpardhi/blockflow/internal/metrics"
)

// LoadError reports a failed catalog fetch or parse.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader performs the one-shot catalog load and publishes the result to its
// subscribers.
type Loader struct {
	src    Source
	logger *slog.Logger

	mu          sync.RWMutex
	kinds       []BlockKind
	err         error
	subscribers []func([]BlockKind)

	once sync.Once
	done chan struct{}
}

// NewLoader creates a Loader for src. Nothing is fetched until Start.
func NewLoader(src Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		src:    src,
		logger: logger.With("component", "catalog"),
		done:   make(chan struct{}),
	}
}

// Subscribe registers fn to receive the full kind list once the load
// succeeds. Subscribers registered after a successful load are called
// immediately with the current list.
func (l *Loader) Subscribe(fn func([]BlockKind)) {
	l.mu.Lock()
	l.subscribers = append(l.subscribers, fn)
	loaded := l.kinds != nil
	kinds := l.kinds
	l.mu.Unlock()
	if loaded {
		fn(kinds)
	}
}

// Start launches the load in the background. Only the first call has any
// effect; the load runs exactly once and is never retried.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go func() {
			defer close(l.done)
			l.load(ctx)
		}()
	})
}

// Done is closed once the load has finished, successfully or not.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Kinds returns the loaded kinds (empty until a successful load).
func (l *Loader) Kinds() []BlockKind {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]BlockKind, len(l.kinds))
	copy(out, l.kinds)
	return out
}

// Err returns the load error, if any.
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Loaded reports whether a load completed successfully.
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.kinds != nil
}

func (l *Loader) load(ctx context.Context) {
	data, err := l.src.Fetch(ctx)
	if err == nil {
		var kinds []BlockKind
		var warnings []string
		kinds, warnings, err = Parse(data)
		for _, w := range warnings {
			l.logger.Warn("catalog entry", "source", l.src.String(), "problem", w)
		}
		if err == nil {
			l.publish(kinds)
			return
		}
	}

	lerr := &LoadError{Source: l.src.String(), Err: err}
	l.mu.Lock()
	l.err = lerr
	l.mu.Unlock()
	metrics.CatalogLoads.WithLabelValues("error").Inc()
	l.logger.Error("catalog load failed; no block kinds available", "source", l.src.String(), "err", err)
}

func (l *Loader) publish(kinds []BlockKind) {
	if kinds == nil {
		kinds = []BlockKind{}
	}
	l.mu.Lock()
	l.kinds = kinds
	l.err = nil
	callbacks := make([]func([]BlockKind), len(l.subscribers))
	copy(callbacks, l.subscribers)
	l.mu.Unlock()

	for _, fn := range callbacks {
		fn(kinds)
	}
	metrics.CatalogLoads.WithLabelValues("success").Inc()
	metrics.CatalogKinds.Set(float64(len(kinds)))
	l.logger.Info("catalog loaded", "source", l.src.String(), "kinds", len(kinds))
}
