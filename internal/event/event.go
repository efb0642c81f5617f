package event

import (
	"time"

	"github.com/gyaneshwarpardhi/blockflow/internal/dnd"
	"github.com/gyaneshwarpardhi/blockflow/internal/graph"
)

// Type names a gesture reported by the surface.
type Type string

const (
	TypeNodesChange Type = "nodes_change"
	TypeEdgesChange Type = "edges_change"
	TypeConnect     Type = "connect"
	TypeDragStart   Type = "drag_start"
	TypeDragOver    Type = "drag_over"
	TypeDrop        Type = "drop"
	TypeContextMenu Type = "context_menu"
	TypeDismissMenu Type = "dismiss_menu"
	TypeViewport    Type = "viewport"
)

// Event is the canonical input model for everything the surface reports.
// Only the fields relevant to Type are set.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type" validate:"required,oneof=nodes_change edges_change connect drag_start drag_over drop context_menu dismiss_menu viewport"`
	ReceivedAt time.Time `json:"-"`

	NodeChanges []graph.NodeChange `json:"node_changes,omitempty" validate:"required_if=Type nodes_change,dive"`
	EdgeChanges []graph.EdgeChange `json:"edge_changes,omitempty" validate:"required_if=Type edges_change,dive"`

	Connection *graph.Connection `json:"connection,omitempty" validate:"required_if=Type connect"`

	// Kind is the block-kind payload of drag_start and drop.
	Kind string `json:"kind,omitempty"`
	// Client is the pointer position for drop and context_menu.
	Client *graph.Position `json:"client,omitempty" validate:"required_if=Type drop,required_if=Type context_menu"`
	// Viewport is the current canvas transform for drop and viewport.
	Viewport *dnd.Viewport `json:"viewport,omitempty" validate:"required_if=Type viewport"`
}
