package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Connections counts websocket attaches over the process lifetime.
	Connections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webmeet_connections_total",
		Help: "Signaling connections accepted.",
	})

	// Relayed counts routed events by kind.
	Relayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webmeet_relayed_events_total",
		Help: "Events relayed to one or more recipients.",
	}, []string{"kind"})

	// Dropped counts frames lost to backpressure or gone recipients.
	Dropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webmeet_dropped_frames_total",
		Help: "Outbound frames dropped instead of delivered.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
