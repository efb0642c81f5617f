// Package render maps block kinds to rendering strategies. The surface draws
// whatever View a strategy returns; strategies are looked up per node at
// render time, with a generic fallback for kinds the catalog does not know.
package render

import (
	"sync"

	"github.com/gyaneshwarpardhi/blockflow/internal/catalog"
	"github.com/gyaneshwarpardhi/blockflow/internal/graph"
)

// HandleSpec describes a connection point drawn on a block.
type HandleSpec struct {
	ID       string `json:"id"`
	Type     string `json:"type"`     // "source" | "target"
	Position string `json:"position"` // "top" | "bottom"
}

// View is the render-ready description of one node.
type View struct {
	NodeID     string                 `json:"nodeId"`
	Kind       string                 `json:"kind"`
	Label      string                 `json:"label"`
	ClassNames string                 `json:"classNames,omitempty"`
	Style      map[string]interface{} `json:"style,omitempty"`
	Handles    []HandleSpec           `json:"handles"`
	Generic    bool                   `json:"generic,omitempty"`
}

// Renderer turns a node into a View.
type Renderer interface {
	Render(n graph.Node) View
}

var blockHandles = []HandleSpec{
	{ID: graph.HandleInput, Type: "target", Position: "top"},
	{ID: graph.HandleOutput, Type: "source", Position: "bottom"},
}

// blockRenderer draws a catalog kind with its label and classes.
type blockRenderer struct {
	kind catalog.BlockKind
}

func (r blockRenderer) Render(n graph.Node) View {
	return View{
		NodeID:     n.ID,
		Kind:       n.Kind,
		Label:      r.kind.Label,
		ClassNames: r.kind.ClassNames,
		Style:      r.kind.Style,
		Handles:    blockHandles,
	}
}

// genericRenderer is used for nodes whose kind is not registered.
type genericRenderer struct{}

func (genericRenderer) Render(n graph.Node) View {
	return View{
		NodeID:  n.ID,
		Kind:    n.Kind,
		Label:   n.Data.Label,
		Handles: blockHandles,
		Generic: true,
	}
}

// Registry maps kind ids to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	fallback  Renderer
}

// NewRegistry creates an empty Registry with the generic fallback.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		fallback:  genericRenderer{},
	}
}

// Replace installs one block renderer per kind, dropping previous entries.
// It has the catalog subscriber signature.
func (r *Registry) Replace(kinds []catalog.BlockKind) {
	m := make(map[string]Renderer, len(kinds))
	for _, k := range kinds {
		m[k.ID] = blockRenderer{kind: k}
	}
	r.mu.Lock()
	r.renderers = m
	r.mu.Unlock()
}

// Lookup returns the renderer for kind, or the fallback if none is registered.
func (r *Registry) Lookup(kind string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rr, ok := r.renderers[kind]
	if !ok {
		return r.fallback, false
	}
	return rr, true
}

// Kinds returns the registered kind ids.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.renderers))
	for k := range r.renderers {
		out = append(out, k)
	}
	return out
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.renderers)
}

// RenderGraph renders nodes in order.
func (r *Registry) RenderGraph(nodes []graph.Node) []View {
	views := make([]View, 0, len(nodes))
	for _, n := range nodes {
		rr, _ := r.Lookup(n.Kind)
		views = append(views, rr.Render(n))
	}
	return views
}
