package tcp

import (
	"lanchat/domain"
	"lanchat/errors"
	"sync"
)

// OutboundQueue is the bounded queue between producers and a connection's writer.
// Producers never block: a full queue rejects the frame.
type OutboundQueue struct {
	mu     sync.RWMutex
	frames chan []byte
	closed bool
}

func NewOutboundQueue(capacity int) *OutboundQueue {
	if capacity <= 0 {
		capacity = domain.OutboundQueueCapacity
	}
	return &OutboundQueue{frames: make(chan []byte, capacity)}
}

// TryEnqueue hands a frame to the writer without blocking.
func (q *OutboundQueue) TryEnqueue(frame []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return errors.ErrQueueClosed
	}
	select {
	case q.frames <- frame:
		return nil
	default:
		return errors.ErrQueueFull
	}
}

// Frames is the consumer side. It is closed by Close once buffered frames are drained.
func (q *OutboundQueue) Frames() <-chan []byte {
	return q.frames
}

// Close rejects further frames. Calling it twice is a no-op.
func (q *OutboundQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.frames)
}

func (q *OutboundQueue) Len() int {
	return len(q.frames)
}

func (q *OutboundQueue) Cap() int {
	return cap(q.frames)
}
