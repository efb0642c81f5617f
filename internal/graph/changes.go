package graph

// ChangeType names one incremental update reported by the surface.
type ChangeType string

const (
	ChangePosition   ChangeType = "position"
	ChangeSelect     ChangeType = "select"
	ChangeRemove     ChangeType = "remove"
	ChangeDimensions ChangeType = "dimensions"
)

// Dimensions is the measured size of a rendered node.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeChange is a single diff-style update to one node.
type NodeChange struct {
	Type       ChangeType  `json:"type" validate:"required,oneof=position select remove dimensions"`
	ID         string      `json:"id" validate:"required"`
	Position   *Position   `json:"position,omitempty"`
	Dragging   *bool       `json:"dragging,omitempty"`
	Selected   *bool       `json:"selected,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

// EdgeChange is a single diff-style update to one edge.
type EdgeChange struct {
	Type     ChangeType `json:"type" validate:"required,oneof=select remove"`
	ID       string     `json:"id" validate:"required"`
	Selected *bool      `json:"selected,omitempty"`
}

// applyNode mutates n according to c. It reports false when the node must be
// dropped.
func applyNode(n *Node, c NodeChange) bool {
	switch c.Type {
	case ChangePosition:
		if c.Position != nil {
			n.Position = *c.Position
		}
		if c.Dragging != nil {
			n.Dragging = *c.Dragging
		}
	case ChangeSelect:
		if c.Selected != nil {
			n.Selected = *c.Selected
		}
	case ChangeDimensions:
		if c.Dimensions != nil {
			w, h := c.Dimensions.Width, c.Dimensions.Height
			n.Width, n.Height = &w, &h
		}
	case ChangeRemove:
		return false
	}
	return true
}

func applyEdge(e *Edge, c EdgeChange) bool {
	switch c.Type {
	case ChangeSelect:
		if c.Selected != nil {
			e.Selected = *c.Selected
		}
	case ChangeRemove:
		return false
	}
	return true
}
