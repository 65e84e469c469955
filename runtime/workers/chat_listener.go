package workers

import (
	"context"
	"fmt"
	"lanchat/contract"
	"lanchat/domain"
	"lanchat/errors"
	"lanchat/infrastructure/tcp"
	"log/slog"
	"net"
	"sync"
)

// ChatListenerWorker accepts chat connections and gives each one its own
// reader and writer goroutines. The listener is bound by the caller so that
// bind failures surface before any worker starts.
type ChatListenerWorker struct {
	log      *slog.Logger
	listener net.Listener
	hub      contract.Hub
	conns    sync.WaitGroup
}

func NewChatListenerWorker(log *slog.Logger, listener net.Listener, hub contract.Hub) *ChatListenerWorker {
	return &ChatListenerWorker{
		log:      log,
		listener: listener,
		hub:      hub,
	}
}

// Run accepts until ctx is canceled. An accept failure is fatal: a dead
// listener cannot be restarted by the supervisor. Either way every accepted
// connection is closed before Run returns.
func (w *ChatListenerWorker) Run(ctx context.Context) error {
	w.log.Info("Listening for chat connections", "addr", w.listener.Addr().String())
	stop := context.AfterFunc(ctx, func() {
		if err := w.listener.Close(); err != nil {
			w.log.Debug("Closing chat listener", "error", err)
		}
	})
	defer stop()

	connCtx, cancelConns := context.WithCancel(ctx)
	defer func() {
		cancelConns()
		w.conns.Wait()
	}()

	for {
		conn, err := w.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: accept on %s: %w", errors.ErrFatal, w.listener.Addr(), err)
		}
		w.serve(connCtx, conn)
	}
}

func (w *ChatListenerWorker) serve(ctx context.Context, conn net.Conn) {
	id := domain.PeerID(conn.RemoteAddr().String())
	queue := tcp.NewOutboundQueue(domain.OutboundQueueCapacity)
	if err := w.hub.Register(id, queue); err != nil {
		w.log.Warn("Connection refused", "peer", string(id), "error", err)
		_ = conn.Close()
		return
	}
	connection := tcp.NewConnection(w.log, id, conn, queue, w.hub)

	w.conns.Add(1)
	go func() {
		defer w.conns.Done()
		if err := connection.Run(ctx); err != nil {
			w.log.Warn("Connection failed", "peer", string(id), "error", err)
		}
	}()
}
