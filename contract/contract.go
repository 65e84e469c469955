//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"io"
	"lanchat/domain"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context) error
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Outbound is the sending side of a connection's bounded queue.
// TryEnqueue must never block the caller.
type Outbound interface {
	TryEnqueue(frame []byte) error
	// Len is the number of frames waiting to be written.
	Len() int
}

// MessageSink receives the decoded lines of one connection, in order.
type MessageSink interface {
	OnLine(id domain.PeerID, line string) error
	OnClose(id domain.PeerID)
}

// Hub is the shared chat state seen by the accept loop.
type Hub interface {
	MessageSink
	// Register refuses an id that is already live.
	Register(id domain.PeerID, outbound Outbound) error
}

// Announcer pushes a system line to every named peer.
type Announcer interface {
	Announce(line string)
}

type FileStore interface {
	// Put stores the content under name, overwriting any previous file.
	// created is false when an existing file was replaced.
	Put(name string, content io.Reader) (created bool, err error)
	Get(name string) ([]byte, error)
	List() ([]domain.StoredFile, error)
	Close() error
}

// PeerCounter reports how many peers are connected and how many completed the handshake.
type PeerCounter interface {
	Counts() (connected, named int)
	// Backlog is the number of frames queued across every connection.
	Backlog() int
}
