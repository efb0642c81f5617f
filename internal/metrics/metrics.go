package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockflow_catalog_loads_total",
		Help: "Catalog load attempts, labelled by result.",
	}, []string{"result"})

	CatalogKinds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blockflow_catalog_kinds",
		Help: "Number of block kinds in the loaded catalog.",
	})

	NodesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockflow_nodes_created_total",
		Help: "Nodes created by drop gestures, labelled by block kind.",
	}, []string{"kind"})

	DropsIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockflow_drops_ignored_total",
		Help: "Drop events discarded because they carried no block kind.",
	})

	Connections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockflow_connections_total",
		Help: "Connection attempts, labelled by outcome (accepted, rejected, duplicate, dangling).",
	}, []string{"outcome"})

	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockflow_events_processed_total",
		Help: "Gesture events processed by editor sessions, labelled by event type.",
	}, []string{"type"})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockflow_events_dropped_total",
		Help: "Gesture events rejected because an editor queue was full.",
	})

	EventDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blockflow_event_duration_ms",
		Help:    "Time from dispatch to result for one gesture event, in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250},
	})

	ActiveEditors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blockflow_active_editors",
		Help: "Number of open editor sessions.",
	})

	RuleReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockflow_rule_reloads_total",
		Help: "Connection rule reloads from the config file, labelled by result.",
	}, []string{"result"})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blockflow_editor_queue_utilization",
		Help: "Highest event queue fill ratio (0-1) across open editors.",
	})
)
