// Package runtime owns the shared chat state and wires every worker of the relay.
// It holds no socket logic: connections live in infrastructure/tcp.
package runtime

import (
	"context"
	"lanchat/contract"
	"lanchat/domain"
	"lanchat/infrastructure/fileserver"
	"lanchat/observability"
	"lanchat/runtime/workers"
	"log/slog"
	"net"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

// Endpoints are the listeners the relay serves. They are bound by the caller
// so that a bind failure is reported before anything starts. Metrics is optional.
type Endpoints struct {
	Chat    net.Listener
	Files   net.Listener
	Metrics net.Listener
}

type Orchestrator struct {
	log               *slog.Logger
	supervisor        contract.ISupervisor
	registry          *Registry
	router            *Router
	store             contract.FileStore
	metrics           *observability.Metrics
	gatherer          prometheus.Gatherer
	clock             clockwork.Clock
	heartbeatInterval time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, store contract.FileStore,
	promRegistry *prometheus.Registry, clock clockwork.Clock, heartbeatInterval time.Duration) (*Orchestrator, error) {
	history, err := NewHistory(domain.HistoryCapacity)
	if err != nil {
		return nil, err
	}
	registry := NewRegistry()
	metrics := observability.NewMetrics(promRegistry)
	return &Orchestrator{
		log:               log,
		supervisor:        supervisor,
		registry:          registry,
		router:            NewRouter(log, registry, history, metrics),
		store:             store,
		metrics:           metrics,
		gatherer:          promRegistry,
		clock:             clock,
		heartbeatInterval: heartbeatInterval,
	}, nil
}

// Run starts every worker and blocks until ctx is canceled or a worker fails fatally.
func (o *Orchestrator) Run(ctx context.Context, endpoints Endpoints) error {
	files := fileserver.NewServer(o.log, o.store, o.router, o.metrics)

	o.supervisor.Add(
		workers.NewChatListenerWorker(o.log, endpoints.Chat, o.router),
		workers.NewHTTPServerWorker(o.log, "files", endpoints.Files, files.Handler()),
		workers.NewHeartbeatWorker(o.log, o.clock, o.heartbeatInterval, o.registry),
	)
	if endpoints.Metrics != nil {
		o.supervisor.Add(workers.NewHTTPServerWorker(o.log, "metrics", endpoints.Metrics,
			observability.NewMetricsHandler(o.gatherer)))
	}
	return o.supervisor.Run(ctx)
}

// Stop cancels every worker started by Run.
func (o *Orchestrator) Stop() {
	o.supervisor.Stop()
}

// Announce pushes a system line to every named peer.
func (o *Orchestrator) Announce(line string) {
	o.router.Announce(line)
}
