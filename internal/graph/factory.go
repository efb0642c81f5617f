package graph

import (
	"fmt"
	"sync/atomic"
)

// Factory creates nodes with ids that are unique for the lifetime of the
// factory. Each editor owns its own Factory, so id sequences are never shared.
type Factory struct {
	next atomic.Uint64
}

// NewFactory returns a Factory whose first id is node_0.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateNode returns a new node of the given kind at pos. The kind is not
// checked against the catalog: an unknown kind still yields a node and the
// renderer falls back to a generic shape.
func (f *Factory) CreateNode(kind string, pos Position) Node {
	return Node{
		ID:       f.nextID(),
		Kind:     kind,
		Position: pos,
		Data:     NodeData{Label: kind},
	}
}

// Issued returns how many ids the factory has handed out.
func (f *Factory) Issued() uint64 {
	return f.next.Load()
}

func (f *Factory) nextID() string {
	n := f.next.Add(1) - 1
	return fmt.Sprintf("node_%d", n)
}
