package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/blockflow/internal/config"
	"github.com/gyaneshwarpardhi/blockflow/internal/dnd"
	"github.com/gyaneshwarpardhi/blockflow/internal/event"
	"github.com/gyaneshwarpardhi/blockflow/internal/graph"
	"github.com/gyaneshwarpardhi/blockflow/internal/metrics"
	"github.com/gyaneshwarpardhi/blockflow/internal/notice"
	"github.com/gyaneshwarpardhi/blockflow/internal/render"
	"github.com/gyaneshwarpardhi/blockflow/internal/rules"
)

var (
	ErrQueueFull = errors.New("editor event queue full")
	ErrTimeout   = errors.New("editor event timeout")
	ErrClosed    = errors.New("editor closed")
)

// Result is the outcome of one gesture event.
type Result struct {
	EventID    string          `json:"event_id"`
	Type       event.Type      `json:"type"`
	DurationMs float64         `json:"duration_ms"` // handling time, excluding queue wait
	Node       *graph.Node     `json:"node,omitempty"`
	Edge       *graph.Edge     `json:"edge,omitempty"`
	Rejected   bool            `json:"rejected,omitempty"`
	Notice     *notice.Notice  `json:"notice,omitempty"`
	Ignored    string          `json:"ignored,omitempty"`
	DropEffect string          `json:"drop_effect,omitempty"`
	Menu       *graph.Position `json:"context_menu,omitempty"`
}

// Snapshot is everything the surface needs to draw the editor.
type Snapshot struct {
	ID          string          `json:"id"`
	Nodes       []graph.Node    `json:"nodes"`
	Edges       []graph.Edge    `json:"edges"`
	Views       []render.View   `json:"views"`
	Viewport    dnd.Viewport    `json:"viewport"`
	ContextMenu *graph.Position `json:"context_menu,omitempty"`
	DragState   string          `json:"drag_state"`
}

// Deps are the collaborators shared by every editor.
type Deps struct {
	Validator *rules.Validator
	Renderers *render.Registry
	Conf      config.EditorConf
	Origin    graph.Position
	Logger    *slog.Logger
}

// Editor is one editing session: a graph, its node factory and the
// drag-and-drop controller, driven by a single event loop.
type Editor struct {
	id        string
	validator *rules.Validator
	renderers *render.Registry
	hub       *notice.Hub
	logger    *slog.Logger
	timeout   time.Duration

	// mu is held by the event loop while an event is handled and by
	// Snapshot, so readers never see a half-applied event.
	mu       sync.RWMutex
	store    *graph.Store
	factory  *graph.Factory
	dnd      *dnd.Controller
	viewport dnd.Viewport
	menu     *graph.Position

	pool *workerPool[*work]
}

type work struct {
	ev      *event.Event
	resultC chan outcome
}

type outcome struct {
	res *Result
	err error
}

// New creates an editor and starts its event loop. The loop stops when ctx
// is cancelled or Close is called.
func New(ctx context.Context, id string, d Deps) *Editor {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Validator == nil {
		d.Validator = rules.NewValidator(nil)
	}
	if d.Renderers == nil {
		d.Renderers = render.NewRegistry()
	}
	depth := d.Conf.QueueDepth
	if depth <= 0 {
		depth = 256
	}
	timeout := time.Duration(d.Conf.EventTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	store := graph.NewStore()
	factory := graph.NewFactory()
	e := &Editor{
		id:        id,
		validator: d.Validator,
		renderers: d.Renderers,
		hub:       notice.NewHub(d.Conf.NoticeBuffer),
		logger:    d.Logger.With("editor", id),
		timeout:   timeout,
		store:     store,
		factory:   factory,
		dnd:       dnd.NewController(factory, store, d.Origin),
		viewport:  dnd.Viewport{Zoom: 1},
	}
	e.pool = newWorkerPool[*work](ctx, 1, depth, func(_ context.Context, w *work) {
		res, err := e.handle(w.ev)
		w.resultC <- outcome{res: res, err: err}
	})
	return e
}

// ID returns the editor id.
func (e *Editor) ID() string { return e.id }

// Notices subscribes to the editor's notices.
func (e *Editor) Notices() (<-chan notice.Notice, func()) {
	return e.hub.Subscribe()
}

// Dispatch queues ev on the event loop and waits for its result. A timeout or
// a cancelled ctx only stops the wait: an event already queued is still
// applied to the graph.
func (e *Editor) Dispatch(ctx context.Context, ev *event.Event) (*Result, error) {
	if err := event.Validate(ev); err != nil {
		return nil, err
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}

	start := time.Now()
	w := &work{ev: ev, resultC: make(chan outcome, 1)}
	if e.pool.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrClosed, e.id)
	}
	if !e.pool.Submit(w) {
		metrics.EventsDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.pool.QueueCap())
	}

	select {
	case out := <-w.resultC:
		if out.res != nil {
			metrics.EventDuration.Observe(float64(time.Since(start).Microseconds()) / 1000)
		}
		return out.res, out.err
	case <-time.After(e.timeout):
		return nil, fmt.Errorf("%w after %v", ErrTimeout, e.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot returns a consistent copy of the editor state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	nodes := e.store.Nodes()
	s := Snapshot{
		ID:        e.id,
		Nodes:     nodes,
		Edges:     e.store.Edges(),
		Views:     e.renderers.RenderGraph(nodes),
		Viewport:  e.viewport,
		DragState: e.dnd.State().String(),
	}
	if e.menu != nil {
		m := *e.menu
		s.ContextMenu = &m
	}
	return s
}

// QueueUtilization returns queue used / capacity (0 to 1).
func (e *Editor) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Close stops the event loop after the queued events are handled and
// disconnects notice subscribers.
func (e *Editor) Close() {
	e.pool.Drain()
	e.hub.Close()
}

func (e *Editor) handle(ev *event.Event) (*Result, error) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	res := &Result{EventID: ev.ID, Type: ev.Type}
	var err error
	switch ev.Type {
	case event.TypeNodesChange:
		e.store.ApplyNodeChanges(ev.NodeChanges)
	case event.TypeEdgesChange:
		e.store.ApplyEdgeChanges(ev.EdgeChanges)
	case event.TypeConnect:
		e.connect(*ev.Connection, res)
	case event.TypeDragStart:
		e.dnd.BeginDrag(ev.Kind)
	case event.TypeDragOver:
		res.DropEffect = e.dnd.DragOver()
	case event.TypeDrop:
		err = e.drop(ev, res)
	case event.TypeContextMenu:
		m := *ev.Client
		e.menu = &m
		res.Menu = &m
	case event.TypeDismissMenu:
		e.menu = nil
	case event.TypeViewport:
		e.viewport = *ev.Viewport
	default:
		err = fmt.Errorf("%w: unhandled type %q", event.ErrInvalid, ev.Type)
	}

	res.DurationMs = float64(time.Since(start).Microseconds()) / 1000
	metrics.EventsProcessed.WithLabelValues(string(ev.Type)).Inc()
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Editor) connect(c graph.Connection, res *Result) {
	sink := notice.NotifierFunc(func(n notice.Notice) {
		res.Notice = &n
		e.hub.Notify(n)
	})
	d := e.validator.Connect(c, e.store.Nodes(), sink)
	if !d.Allowed {
		res.Rejected = true
		metrics.Connections.WithLabelValues("rejected").Inc()
		e.logger.Info("connection rejected", "source", c.Source, "target", c.Target, "reason", d.Reason)
		return
	}

	edge := graph.NewEdge(c)
	added, err := e.store.AddEdge(edge)
	switch {
	case errors.Is(err, graph.ErrDanglingEdge):
		res.Ignored = "connection references a node that no longer exists"
		metrics.Connections.WithLabelValues("dangling").Inc()
		e.logger.Warn("connection dropped", "source", c.Source, "target", c.Target, "err", err)
	case !added:
		res.Ignored = "connection already exists"
		metrics.Connections.WithLabelValues("duplicate").Inc()
	default:
		res.Edge = &edge
		metrics.Connections.WithLabelValues("accepted").Inc()
	}
}

func (e *Editor) drop(ev *event.Event, res *Result) error {
	var p dnd.Projector = e.viewport
	if ev.Viewport != nil {
		e.viewport = *ev.Viewport
		p = *ev.Viewport
	}
	n, err := e.dnd.Drop(ev.Kind, *ev.Client, p)
	if errors.Is(err, dnd.ErrEmptyPayload) {
		res.Ignored = "drop carried no block kind"
		metrics.DropsIgnored.Inc()
		return nil
	}
	if err != nil {
		return err
	}
	if _, known := e.renderers.Lookup(n.Kind); !known {
		e.logger.Debug("node created for unregistered kind", "node", n.ID, "kind", n.Kind)
	}
	res.Node = &n
	metrics.NodesCreated.WithLabelValues(n.Kind).Inc()
	return nil
}
