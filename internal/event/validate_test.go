package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gyaneshwarpardhi/blockflow/internal/dnd"
	"github.com/gyaneshwarpardhi/blockflow/internal/graph"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		ev      *Event
		wantErr string
	}{
		{name: "nil", ev: nil, wantErr: "empty"},
		{name: "missing type", ev: &Event{}, wantErr: "type is required"},
		{name: "unknown type", ev: &Event{Type: "explode"}, wantErr: "type must be one of"},
		{name: "connect without connection", ev: &Event{Type: TypeConnect}, wantErr: "connection is required"},
		{name: "connect without target", ev: &Event{Type: TypeConnect, Connection: &graph.Connection{Source: "n1"}}, wantErr: "target is required"},
		{name: "connect ok", ev: &Event{Type: TypeConnect, Connection: &graph.Connection{Source: "n1", Target: "n2"}}},
		{name: "drop without client", ev: &Event{Type: TypeDrop, Kind: "blockA"}, wantErr: "client is required"},
		{name: "drop with empty kind is valid", ev: &Event{Type: TypeDrop, Client: &graph.Position{}}},
		{name: "context menu without client", ev: &Event{Type: TypeContextMenu}, wantErr: "client is required"},
		{name: "viewport", ev: &Event{Type: TypeViewport, Viewport: &dnd.Viewport{Zoom: 1}}},
		{name: "nodes change without changes", ev: &Event{Type: TypeNodesChange}, wantErr: "node_changes is required"},
		{name: "bad node change", ev: &Event{Type: TypeNodesChange, NodeChanges: []graph.NodeChange{{Type: "wiggle", ID: "n1"}}}, wantErr: "must be one of"},
		{name: "edge change ok", ev: &Event{Type: TypeEdgesChange, EdgeChanges: []graph.EdgeChange{{Type: graph.ChangeRemove, ID: "e1"}}}},
		{name: "drag over", ev: &Event{Type: TypeDragOver}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.ev)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalid)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
