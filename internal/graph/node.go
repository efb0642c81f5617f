package graph

import "fmt"

// Handle ids used by every block. Edges always leave a node through its
// output handle and enter the target through its input handle.
const (
	HandleOutput = "output"
	HandleInput  = "input"
)

// Position is a point in canvas space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the surface-visible payload of a node.
type NodeData struct {
	Label string `json:"label"`
}

// Node is a placed instance of a block kind on the canvas.
type Node struct {
	ID       string   `json:"id"`
	Kind     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`

	// Transient flags reported by the surface.
	Selected bool     `json:"selected,omitempty"`
	Dragging bool     `json:"dragging,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
}

// Edge is a directed connection from one node's output handle to another
// node's input handle.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`
	Selected     bool   `json:"selected,omitempty"`
}

// Connection is a proposed edge reported by the surface before it is accepted.
type Connection struct {
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// NewEdge builds the edge for an accepted connection. Missing handles default
// to output/input and the id is derived from the endpoints.
func NewEdge(c Connection) Edge {
	sh, th := c.SourceHandle, c.TargetHandle
	if sh == "" {
		sh = HandleOutput
	}
	if th == "" {
		th = HandleInput
	}
	return Edge{
		ID:           EdgeID(c.Source, sh, c.Target, th),
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: sh,
		TargetHandle: th,
	}
}

// EdgeID derives the id of an edge from its endpoints and handles.
func EdgeID(source, sourceHandle, target, targetHandle string) string {
	return fmt.Sprintf("edge-%s%s-%s%s", source, sourceHandle, target, targetHandle)
}
