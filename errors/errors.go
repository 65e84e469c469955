package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// ErrFatal marks a worker failure that must stop the whole process instead of a restart.
	ErrFatal = fmt.Errorf("fatal worker failure")

	ErrQueueFull   = fmt.Errorf("outbound queue is full")
	ErrQueueClosed = fmt.Errorf("outbound queue is closed")
	ErrUnknownPeer = fmt.Errorf("unknown peer")
	ErrNameTaken   = fmt.Errorf("peer already has a name")
	ErrPeerExists  = fmt.Errorf("peer already registered")
	ErrZeroWrite   = fmt.Errorf("socket accepted zero bytes")

	ErrFileNotFound     = fmt.Errorf("file not found")
	ErrInvalidFileName  = fmt.Errorf("invalid file name")
	ErrUnknownFileStore = fmt.Errorf("unknown file store")
)
