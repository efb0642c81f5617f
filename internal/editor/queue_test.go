package editor

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/blockflow/internal/config"
	"github.com/gyaneshwarpardhi/blockflow/internal/event"
	"github.com/gyaneshwarpardhi/blockflow/internal/graph"
)

func TestWorkerPool_SubmitFullAndDrain(t *testing.T) {
	release := make(chan struct{})
	var handled atomic.Int32
	p := newWorkerPool[int](context.Background(), 1, 1, func(_ context.Context, _ int) {
		<-release
		handled.Add(1)
	})

	assert.True(t, p.Submit(1))
	// wait until the worker has taken the first job
	for p.QueueLen() != 0 {
		runtime.Gosched()
	}
	assert.True(t, p.Submit(2))
	assert.False(t, p.Submit(3), "queue of one should be full")
	assert.Equal(t, 1, p.QueueCap())

	close(release)
	p.Drain()
	p.Drain()
	assert.True(t, p.Closed())
	assert.False(t, p.Submit(4))
	assert.Equal(t, int32(2), handled.Load())
}

func TestQueueUtilization(t *testing.T) {
	m := NewManager(context.Background(), Deps{Conf: config.EditorConf{QueueDepth: 4}})
	defer m.Shutdown()
	e, err := m.Create()
	require.NoError(t, err)
	assert.Zero(t, m.MaxQueueUtilization())

	// hold the editor lock so the event loop stalls on the first event
	e.mu.Lock()
	for i := 0; i < 3; i++ {
		require.True(t, e.pool.Submit(&work{ev: &event.Event{Type: event.TypeDragOver}, resultC: make(chan outcome, 1)}))
		if i == 0 {
			for e.pool.QueueLen() != 0 {
				runtime.Gosched()
			}
		}
	}
	assert.Equal(t, 0.5, e.QueueUtilization())
	assert.Equal(t, 0.5, m.MaxQueueUtilization())
	e.mu.Unlock()
}

func TestDispatch_TimeoutStillApplies(t *testing.T) {
	e := New(context.Background(), "slow", Deps{
		Conf:   config.EditorConf{QueueDepth: 4, EventTimeoutMs: 20},
		Origin: graph.Position{Y: 40},
	})
	defer e.Close()

	e.mu.Lock()
	_, err := e.Dispatch(context.Background(), &event.Event{
		Type:   event.TypeDrop,
		Kind:   "blockA",
		Client: &graph.Position{X: 100, Y: 140},
	})
	assert.ErrorIs(t, err, ErrTimeout)
	e.mu.Unlock()

	require.Eventually(t, func() bool { return len(e.Snapshot().Nodes) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, graph.Position{X: 100, Y: 100}, e.Snapshot().Nodes[0].Position)
}
