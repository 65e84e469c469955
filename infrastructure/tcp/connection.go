package tcp

import (
	"context"
	"lanchat/contract"
	"lanchat/domain"
	"lanchat/protocol"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
)

// Connection owns one socket. The reader goroutine hands decoded lines to the sink
// in arrival order; the writer goroutine drains the outbound queue in batches.
type Connection struct {
	id        domain.PeerID
	conn      net.Conn
	outbound  *OutboundQueue
	sink      contract.MessageSink
	log       *slog.Logger
	closeOnce sync.Once
	closing   atomic.Bool
}

func NewConnection(log *slog.Logger, id domain.PeerID, conn net.Conn,
	outbound *OutboundQueue, sink contract.MessageSink) *Connection {
	return &Connection{
		id:       id,
		conn:     conn,
		outbound: outbound,
		sink:     sink,
		log:      log.With("peer", string(id)),
	}
}

func (c *Connection) ID() domain.PeerID {
	return c.id
}

// Outbound is the queue other goroutines use to reach this peer.
func (c *Connection) Outbound() contract.Outbound {
	return c.outbound
}

// Run blocks until the peer disconnects, a socket error occurs or ctx is canceled.
// OnClose is delivered exactly once, after the writer has stopped.
func (c *Connection) Run(ctx context.Context) error {
	writerDone := make(chan error, 1)
	go func() {
		writerDone <- c.writeLoop()
	}()

	stop := context.AfterFunc(ctx, c.Close)
	defer stop()

	readErr := protocol.ReadFrames(c.conn, &protocol.LineDecoder{},
		make([]byte, domain.ReadBufferSize), c.dispatch)
	closedLocally := c.closing.Load()

	c.Close()
	c.outbound.Close()
	writeErr := <-writerDone
	c.sink.OnClose(c.id)

	if writeErr != nil {
		return writeErr
	}
	// Errors caused by our own Close are the normal way out.
	if readErr != nil && !closedLocally {
		return readErr
	}
	return nil
}

// Close tears the socket down, which unblocks both loops.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		if err := c.conn.Close(); err != nil {
			c.log.Debug("Closing socket", "error", err)
		}
	})
}

func (c *Connection) dispatch(frame []byte) {
	if err := c.sink.OnLine(c.id, domain.DecodeLine(frame)); err != nil {
		c.log.Debug("Line rejected", "error", err)
	}
}

// writeLoop buffers up to LinesPerTick frames, then flushes them in one go.
// A flush failure closes the socket so the reader ends too; Run reports it.
func (c *Connection) writeLoop() error {
	enc := &protocol.LineEncoder{}
	frames := c.outbound.Frames()

	for frame := range frames {
		enc.Buffer(frame)
	batch:
		for i := 1; i < domain.LinesPerTick; i++ {
			select {
			case next, ok := <-frames:
				if !ok {
					break batch
				}
				enc.Buffer(next)
			default:
				break batch
			}
		}

		if err := enc.Flush(c.conn); err != nil {
			if c.closing.Load() {
				return nil
			}
			c.Close()
			return err
		}
	}
	return nil
}
