// Package observability exposes the relay's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is registered on an explicit registerer so several servers can live in one process.
type Metrics struct {
	PeersConnected prometheus.Gauge
	PeersNamed     prometheus.Gauge
	FramesRelayed  prometheus.Counter
	// FramesDropped counts frames rejected by a peer's outbound queue, by reason.
	FramesDropped *prometheus.CounterVec
	FilesReceived prometheus.Counter
	FilesServed   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PeersConnected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lanchat_peers_connected",
			Help: "Number of open chat connections",
		}),
		PeersNamed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lanchat_peers_named",
			Help: "Number of chat connections that completed the name handshake",
		}),
		FramesRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "lanchat_frames_relayed_total",
			Help: "Frames queued for delivery to a peer",
		}),
		FramesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lanchat_frames_dropped_total",
			Help: "Frames that could not be queued for a peer",
		}, []string{"reason"}),
		FilesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "lanchat_files_received_total",
			Help: "Files stored through the file sideband",
		}),
		FilesServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "lanchat_files_served_total",
			Help: "Files downloaded through the file sideband",
		}),
	}
}
