package runtime

import (
	goerrors "errors"
	"fmt"
	"lanchat/contract"
	"lanchat/domain"
	"lanchat/errors"
	"lanchat/observability"
	"lanchat/protocol"
	"log/slog"
)

var (
	_ contract.Hub       = (*Router)(nil)
	_ contract.Announcer = (*Router)(nil)
)

// Router applies the chat rules to every inbound line: name handshake,
// history replay, relay and departure notices. All shared state is touched
// inside one Registry.Atomically call per event; logging happens after.
type Router struct {
	log      *slog.Logger
	registry *Registry
	history  *History
	metrics  *observability.Metrics
}

func NewRouter(log *slog.Logger, registry *Registry, history *History, metrics *observability.Metrics) *Router {
	return &Router{
		log:      log,
		registry: registry,
		history:  history,
		metrics:  metrics,
	}
}

// Register makes a freshly accepted connection visible, still unnamed.
func (r *Router) Register(id domain.PeerID, outbound contract.Outbound) error {
	if err := r.registry.Insert(id, outbound); err != nil {
		return err
	}
	r.metrics.PeersConnected.Inc()
	r.log.Info(fmt.Sprintf("%s connected", id))
	return nil
}

// OnLine handles one decoded line. The first line of a peer is its name.
func (r *Router) OnLine(id domain.PeerID, line string) error {
	var (
		delivered int
		failures  []Delivery
		joined    bool
	)
	err := r.registry.Atomically(func(tx *Tx) error {
		entry, err := tx.Get(id)
		if err != nil {
			return err
		}
		if !entry.Named() {
			joined = true
			delivered, failures, err = r.handshake(tx, id, line)
			return err
		}
		chat := domain.ChatLine(entry.Name(), line)
		r.history.Push(chat)
		delivered, failures = tx.Broadcast(id, protocol.Encode(chat))
		return nil
	})
	if err != nil {
		r.log.Error("Line handling aborted", "peer", string(id), "error", err)
		return err
	}
	if joined {
		r.metrics.PeersNamed.Inc()
		r.log.Info(domain.JoinLine(line, id))
	}
	r.report(delivered, failures)
	return nil
}

// handshake names the peer, replays the history and the roster to it alone,
// then tells everyone else.
func (r *Router) handshake(tx *Tx, id domain.PeerID, name string) (int, []Delivery, error) {
	roster := tx.Roster(id)
	if err := tx.SetName(id, name); err != nil {
		return 0, nil, err
	}

	var (
		delivered int
		failures  []Delivery
	)
	replay := append(r.history.Lines(), domain.RosterLine(roster))
	for _, line := range replay {
		if err := tx.Send(id, protocol.Encode(line)); err != nil {
			failures = append(failures, Delivery{Target: id, Err: err})
			continue
		}
		delivered++
	}

	n, f := tx.Broadcast(id, protocol.Encode(domain.JoinLine(name, id)))
	return delivered + n, append(failures, f...), nil
}

// OnClose forgets the peer. Only named peers produce a departure notice.
func (r *Router) OnClose(id domain.PeerID) {
	var (
		entry     *PeerEntry
		leave     string
		delivered int
		failures  []Delivery
	)
	err := r.registry.Atomically(func(tx *Tx) error {
		var err error
		entry, err = tx.Remove(id)
		if err != nil {
			return err
		}
		if entry.Named() {
			leave = domain.LeaveLine(entry.Name(), tx.Roster(id))
			delivered, failures = tx.Broadcast(id, protocol.Encode(leave))
		}
		return nil
	})
	if err != nil {
		r.log.Error("Closing unknown peer", "peer", string(id), "error", err)
		return
	}

	r.metrics.PeersConnected.Dec()
	r.log.Debug("Peer removed", "peer", string(id), "state", entry.State().String())
	if !entry.Named() {
		r.log.Info(fmt.Sprintf("%s%s disconnected", domain.SystemPrefix, id))
		return
	}
	r.metrics.PeersNamed.Dec()
	r.log.Info(leave)
	r.report(delivered, failures)
}

// Announce broadcasts a system line to every named peer. It is not kept in history.
func (r *Router) Announce(line string) {
	var (
		delivered int
		failures  []Delivery
	)
	_ = r.registry.Atomically(func(tx *Tx) error {
		delivered, failures = tx.Broadcast("", protocol.Encode(line))
		return nil
	})
	r.log.Info(line)
	r.report(delivered, failures)
}

func (r *Router) report(delivered int, failures []Delivery) {
	r.metrics.FramesRelayed.Add(float64(delivered))
	for _, f := range failures {
		r.metrics.FramesDropped.WithLabelValues(dropReason(f.Err)).Inc()
		r.log.Warn("Frame dropped", "peer", string(f.Target), "error", f.Err)
	}
}

func dropReason(err error) string {
	switch {
	case goerrors.Is(err, errors.ErrQueueFull):
		return "queue_full"
	case goerrors.Is(err, errors.ErrQueueClosed):
		return "queue_closed"
	default:
		return "other"
	}
}
