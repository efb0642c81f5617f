package graph_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/blockflow/internal/graph"
)

func boolPtr(b bool) *bool { return &b }

func seed(t *testing.T, kinds ...string) (*graph.Store, []graph.Node) {
	t.Helper()
	s := graph.NewStore()
	f := graph.NewFactory()
	nodes := make([]graph.Node, 0, len(kinds))
	for i, k := range kinds {
		n := f.CreateNode(k, graph.Position{X: float64(i * 100), Y: 0})
		require.NoError(t, s.AddNode(n))
		nodes = append(nodes, n)
	}
	return s, nodes
}

func TestFactory_IDsAreUniqueAndOrdered(t *testing.T) {
	f := graph.NewFactory()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		n := f.CreateNode("blockA", graph.Position{})
		assert.Equal(t, fmt.Sprintf("node_%d", i), n.ID)
		_, dup := seen[n.ID]
		require.False(t, dup, "id %s issued twice", n.ID)
		seen[n.ID] = struct{}{}
	}
	assert.EqualValues(t, 50, f.Issued())
}

func TestFactory_InstancesDoNotShareSequence(t *testing.T) {
	a, b := graph.NewFactory(), graph.NewFactory()
	a.CreateNode("blockA", graph.Position{})
	a.CreateNode("blockA", graph.Position{})
	assert.Equal(t, "node_0", b.CreateNode("blockB", graph.Position{}).ID)
	assert.Equal(t, "node_2", a.CreateNode("blockA", graph.Position{}).ID)
}

func TestFactory_UnknownKindStillCreatesNode(t *testing.T) {
	n := graph.NewFactory().CreateNode("not-in-catalog", graph.Position{X: 3, Y: 4})
	assert.Equal(t, "not-in-catalog", n.Kind)
	assert.Equal(t, "not-in-catalog", n.Data.Label)
	assert.Equal(t, graph.Position{X: 3, Y: 4}, n.Position)
}

func TestStore_AddNodeDuplicate(t *testing.T) {
	s, nodes := seed(t, "blockA")
	err := s.AddNode(nodes[0])
	require.ErrorIs(t, err, graph.ErrDuplicateNode)
	assert.Equal(t, 1, s.NodeCount())
}

func TestStore_AddEdge(t *testing.T) {
	s, nodes := seed(t, "blockA", "blockB")
	e := graph.NewEdge(graph.Connection{Source: nodes[0].ID, Target: nodes[1].ID})

	added, err := s.AddEdge(e)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "edge-node_0output-node_1input", e.ID)

	// Same connection again is a no-op.
	added, err = s.AddEdge(e)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, s.EdgeCount())
}

func TestStore_AddEdgeDangling(t *testing.T) {
	s, nodes := seed(t, "blockA")
	_, err := s.AddEdge(graph.NewEdge(graph.Connection{Source: nodes[0].ID, Target: "node_99"}))
	require.ErrorIs(t, err, graph.ErrDanglingEdge)
	assert.Zero(t, s.EdgeCount())
}

func TestStore_SelfLoopAllowed(t *testing.T) {
	s, nodes := seed(t, "blockA")
	added, err := s.AddEdge(graph.NewEdge(graph.Connection{Source: nodes[0].ID, Target: nodes[0].ID}))
	require.NoError(t, err)
	assert.True(t, added)
}

func TestStore_ApplyNodeChanges(t *testing.T) {
	s, nodes := seed(t, "blockA", "blockB")

	s.ApplyNodeChanges([]graph.NodeChange{
		{Type: graph.ChangePosition, ID: nodes[0].ID, Position: &graph.Position{X: 7, Y: 9}, Dragging: boolPtr(true)},
		{Type: graph.ChangeSelect, ID: nodes[1].ID, Selected: boolPtr(true)},
		{Type: graph.ChangeDimensions, ID: nodes[1].ID, Dimensions: &graph.Dimensions{Width: 112, Height: 56}},
		{Type: graph.ChangePosition, ID: "node_missing", Position: &graph.Position{X: 1}},
	})

	n0, ok := s.Node(nodes[0].ID)
	require.True(t, ok)
	assert.Equal(t, graph.Position{X: 7, Y: 9}, n0.Position)
	assert.True(t, n0.Dragging)

	n1, ok := s.Node(nodes[1].ID)
	require.True(t, ok)
	assert.True(t, n1.Selected)
	require.NotNil(t, n1.Width)
	assert.Equal(t, 112.0, *n1.Width)
	assert.Equal(t, 2, s.NodeCount())
}

func TestStore_RemoveNodeRemovesEdges(t *testing.T) {
	s, nodes := seed(t, "blockA", "blockB", "blockC")
	_, err := s.AddEdge(graph.NewEdge(graph.Connection{Source: nodes[0].ID, Target: nodes[1].ID}))
	require.NoError(t, err)
	_, err = s.AddEdge(graph.NewEdge(graph.Connection{Source: nodes[2].ID, Target: nodes[0].ID}))
	require.NoError(t, err)
	_, err = s.AddEdge(graph.NewEdge(graph.Connection{Source: nodes[1].ID, Target: nodes[2].ID}))
	require.NoError(t, err)

	s.ApplyNodeChanges([]graph.NodeChange{{Type: graph.ChangeRemove, ID: nodes[0].ID}})

	assert.Equal(t, 2, s.NodeCount())
	_, ok := s.Node(nodes[0].ID)
	assert.False(t, ok)
	edges := s.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, nodes[1].ID, edges[0].Source)
	assert.Equal(t, nodes[2].ID, edges[0].Target)

	// Remaining nodes are still addressable after the reindex.
	_, ok = s.Node(nodes[2].ID)
	assert.True(t, ok)
}

func TestStore_ApplyEdgeChanges(t *testing.T) {
	s, nodes := seed(t, "blockA", "blockB")
	e := graph.NewEdge(graph.Connection{Source: nodes[0].ID, Target: nodes[1].ID})
	_, err := s.AddEdge(e)
	require.NoError(t, err)

	s.ApplyEdgeChanges([]graph.EdgeChange{{Type: graph.ChangeSelect, ID: e.ID, Selected: boolPtr(true)}})
	require.Len(t, s.Edges(), 1)
	assert.True(t, s.Edges()[0].Selected)

	s.ApplyEdgeChanges([]graph.EdgeChange{{Type: graph.ChangeRemove, ID: e.ID}})
	assert.Zero(t, s.EdgeCount())
	assert.Equal(t, 2, s.NodeCount())
}

func TestStore_ReadsAreCopies(t *testing.T) {
	s, nodes := seed(t, "blockA")
	got := s.Nodes()
	got[0].Position.X = 999
	n, _ := s.Node(nodes[0].ID)
	assert.NotEqual(t, 999.0, n.Position.X)
}
