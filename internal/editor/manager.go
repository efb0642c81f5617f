package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/blockflow/internal/metrics"
)

var (
	ErrNotFound       = errors.New("editor not found")
	ErrTooManyEditors = errors.New("too many open editors")
)

// Manager owns every open editor, keyed by a uuid.
type Manager struct {
	ctx  context.Context
	deps Deps

	mu      sync.RWMutex
	editors map[string]*Editor
}

// NewManager creates a Manager whose editors share deps. Editors stop when
// ctx is cancelled.
func NewManager(ctx context.Context, deps Deps) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Manager{ctx: ctx, deps: deps, editors: make(map[string]*Editor)}
}

// Create opens a new editor.
func (m *Manager) Create() (*Editor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit := m.deps.Conf.MaxEditors; limit > 0 && len(m.editors) >= limit {
		return nil, fmt.Errorf("%w (limit %d)", ErrTooManyEditors, limit)
	}
	id := uuid.New().String()
	e := New(m.ctx, id, m.deps)
	m.editors[id] = e
	metrics.ActiveEditors.Set(float64(len(m.editors)))
	m.deps.Logger.Info("editor opened", "editor", id)
	return e, nil
}

// Get returns an open editor.
func (m *Manager) Get(id string) (*Editor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.editors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// IDs returns the ids of all open editors, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.editors))
	for id := range m.editors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of open editors.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.editors)
}

// MaxQueueUtilization returns the fullest event queue among open editors.
func (m *Manager) MaxQueueUtilization() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var highest float64
	for _, e := range m.editors {
		if u := e.QueueUtilization(); u > highest {
			highest = u
		}
	}
	return highest
}

// Close shuts one editor down.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	e, ok := m.editors[id]
	if ok {
		delete(m.editors, id)
		metrics.ActiveEditors.Set(float64(len(m.editors)))
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.Close()
	m.deps.Logger.Info("editor closed", "editor", id)
	return nil
}

// Shutdown closes every editor.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	editors := m.editors
	m.editors = make(map[string]*Editor)
	m.mu.Unlock()
	for _, e := range editors {
		e.Close()
	}
	metrics.ActiveEditors.Set(0)
}
