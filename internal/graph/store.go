package graph

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDuplicateNode is returned by AddNode when the id is already present.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrDanglingEdge is returned by AddEdge when an endpoint is not in the store.
	ErrDanglingEdge = errors.New("edge references unknown node")
)

// Store owns the authoritative node and edge sets of one editor.
// Nodes and edges keep insertion order; reads return copies.
type Store struct {
	mu    sync.RWMutex
	nodes []Node
	edges []Edge
	index map[string]int // node id → position in nodes
}

// NewStore allocates an empty Store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// AddNode appends n to the node set.
func (s *Store) AddNode(n Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[n.ID]; ok {
		return fmt.Errorf("add node %s: %w", n.ID, ErrDuplicateNode)
	}
	s.index[n.ID] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	return nil
}

// AddEdge appends e to the edge set. The adjacency rule is not checked here;
// callers only add edges the validator accepted. Adding an edge whose id is
// already present is a no-op and reports false.
func (s *Store) AddEdge(e Edge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, srcOK := s.index[e.Source]
	_, dstOK := s.index[e.Target]
	if !srcOK || !dstOK {
		return false, fmt.Errorf("add edge %s: %w", e.ID, ErrDanglingEdge)
	}
	for _, existing := range s.edges {
		if existing.ID == e.ID {
			return false, nil
		}
	}
	s.edges = append(s.edges, e)
	return true, nil
}

// ApplyNodeChanges applies a batch of node changes in order. Changes for
// unknown ids are skipped. Removing a node also removes every edge touching it.
func (s *Store) ApplyNodeChanges(changes []NodeChange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[string]struct{})
	for _, c := range changes {
		i, ok := s.index[c.ID]
		if !ok {
			continue
		}
		if _, gone := removed[c.ID]; gone {
			continue
		}
		if !applyNode(&s.nodes[i], c) {
			removed[c.ID] = struct{}{}
		}
	}
	if len(removed) == 0 {
		return
	}

	kept := s.nodes[:0]
	for _, n := range s.nodes {
		if _, gone := removed[n.ID]; !gone {
			kept = append(kept, n)
		}
	}
	s.nodes = kept
	s.reindex()

	keptEdges := s.edges[:0]
	for _, e := range s.edges {
		_, srcGone := removed[e.Source]
		_, dstGone := removed[e.Target]
		if !srcGone && !dstGone {
			keptEdges = append(keptEdges, e)
		}
	}
	s.edges = keptEdges
}

// ApplyEdgeChanges applies a batch of edge changes in order.
func (s *Store) ApplyEdgeChanges(changes []EdgeChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range changes {
		for i := range s.edges {
			if s.edges[i].ID != c.ID {
				continue
			}
			if !applyEdge(&s.edges[i], c) {
				s.edges = append(s.edges[:i], s.edges[i+1:]...)
			}
			break
		}
	}
}

// Node returns the node with the given id.
func (s *Store) Node(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Nodes returns a copy of the node set in insertion order.
func (s *Store) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Edges returns a copy of the edge set in insertion order.
func (s *Store) Edges() []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.nodes))
	for i, n := range s.nodes {
		s.index[n.ID] = i
	}
}
