package relay

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics live on a registry owned by each relay so that many relays (as in tests) can coexist.
type metrics struct {
	registry *prometheus.Registry

	events           *prometheus.CounterVec
	frames           *prometheus.CounterVec
	subscriptions    prometheus.Counter
	deliveries       prometheus.Counter
	connectionsTotal prometheus.Counter
}

func newMetrics(rl *Relay) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),

		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memrelay",
			Name:      "events_total",
			Help:      "Submitted events by admission result",
		}, []string{"result"}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memrelay",
			Name:      "frames_total",
			Help:      "Inbound frames by type",
		}, []string{"type"}),
		subscriptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memrelay",
			Name:      "subscriptions_opened_total",
			Help:      "Subscriptions opened or replaced",
		}),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memrelay",
			Name:      "broadcast_deliveries_total",
			Help:      "Live events written to subscribers",
		}),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "memrelay",
			Name:      "connections_total",
			Help:      "Websocket connections accepted",
		}),
	}

	m.registry.MustRegister(
		m.events,
		m.frames,
		m.subscriptions,
		m.deliveries,
		m.connectionsTotal,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "memrelay",
			Name:      "stored_events",
			Help:      "Events currently held in memory",
		}, func() float64 { return float64(rl.Store().Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "memrelay",
			Name:      "open_connections",
			Help:      "Websocket connections currently open",
		}, func() float64 { return float64(rl.connections.Value()) }),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
