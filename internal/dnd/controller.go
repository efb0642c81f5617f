// Package dnd turns drag-and-drop gestures from the surface into new nodes.
package dnd

import (
	"errors"
	"fmt"

	"github.com/gyaneshwarpardhi/blockflow/internal/graph"
)

// ErrEmptyPayload is returned by Drop when the drag carried no block kind.
var ErrEmptyPayload = errors.New("drop carried no block kind")

// State of the drag-and-drop controller.
type State int

const (
	Idle State = iota
	Dragging
	Committed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	default:
		return "unknown"
	}
}

// DropEffectMove is the drop effect reported while dragging over the canvas.
const DropEffectMove = "move"

// Projector maps a client-space point into canvas space.
type Projector interface {
	Project(client graph.Position) graph.Position
}

// Viewport is the pan/zoom transform of the canvas.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Project implements Projector. A zero zoom is treated as 1.
func (v Viewport) Project(p graph.Position) graph.Position {
	z := v.Zoom
	if z == 0 {
		z = 1
	}
	return graph.Position{X: (p.X - v.X) / z, Y: (p.Y - v.Y) / z}
}

// Inserter stores a freshly created node.
type Inserter interface {
	AddNode(n graph.Node) error
}

// Controller tracks one drag at a time.
type Controller struct {
	factory *graph.Factory
	store   Inserter
	origin  graph.Position // top-left of the canvas in client space

	state   State
	payload string
}

// NewController creates an idle controller. origin is subtracted from every
// drop point before projection.
func NewController(f *graph.Factory, s Inserter, origin graph.Position) *Controller {
	return &Controller{factory: f, store: s, origin: origin}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Payload returns the kind attached to the in-flight drag, if any.
func (c *Controller) Payload() string { return c.payload }

// BeginDrag attaches kind to a new drag.
func (c *Controller) BeginDrag(kind string) {
	c.state = Dragging
	c.payload = kind
}

// DragOver returns the drop effect to show while hovering the canvas.
func (c *Controller) DragOver() string {
	return DropEffectMove
}

// Drop creates a node of kind at the client point and inserts it. An empty
// kind leaves the graph untouched and returns ErrEmptyPayload.
func (c *Controller) Drop(kind string, client graph.Position, p Projector) (graph.Node, error) {
	c.payload = ""
	if kind == "" {
		c.state = Idle
		return graph.Node{}, ErrEmptyPayload
	}
	if p == nil {
		p = Viewport{Zoom: 1}
	}
	pos := p.Project(graph.Position{X: client.X - c.origin.X, Y: client.Y - c.origin.Y})
	n := c.factory.CreateNode(kind, pos)
	if err := c.store.AddNode(n); err != nil {
		c.state = Idle
		return graph.Node{}, fmt.Errorf("insert dropped node: %w", err)
	}
	c.state = Committed
	return n, nil
}
