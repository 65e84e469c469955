package runtime

import (
	"fmt"
	"lanchat/contract"
	"lanchat/domain"
	"lanchat/errors"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// PeerEntry is the registry's view of one connection.
// name stays nil until the handshake line is processed, then never changes.
// closed is set when the entry leaves the registry.
type PeerEntry struct {
	outbound contract.Outbound
	name     *string
	closed   bool
}

func (e *PeerEntry) Named() bool {
	return e.name != nil
}

func (e *PeerEntry) Name() string {
	return lo.FromPtr(e.name)
}

func (e *PeerEntry) State() domain.PeerState {
	if e.closed {
		return domain.Closed
	}
	if e.Named() {
		return domain.Named
	}
	return domain.Unnamed
}

// Delivery reports a frame that could not be queued for one peer.
type Delivery struct {
	Target domain.PeerID
	Err    error
}

// Registry holds every live connection. A single mutex guards the map and,
// through the router, the history: one coarse lock, never held across I/O.
type Registry struct {
	mu    sync.Mutex
	peers map[domain.PeerID]*PeerEntry
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[domain.PeerID]*PeerEntry)}
}

// Insert adds an unnamed peer. An id already present is refused, the live
// entry is kept.
func (r *Registry) Insert(id domain.PeerID, outbound contract.Outbound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.peers[id]; ok {
		return fmt.Errorf("%w: %s", errors.ErrPeerExists, id)
	}
	r.peers[id] = &PeerEntry{outbound: outbound}
	return nil
}

func (r *Registry) Remove(id domain.PeerID) (*PeerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&Tx{r: r}).Remove(id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}

// Counts returns the number of connected and named peers.
func (r *Registry) Counts() (connected, named int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	named = lo.CountBy(lo.Values(r.peers), (*PeerEntry).Named)
	return len(r.peers), named
}

// Backlog is the number of frames still waiting in every outbound queue.
func (r *Registry) Backlog() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.SumBy(lo.Values(r.peers), func(entry *PeerEntry) int {
		return entry.outbound.Len()
	})
}

func (r *Registry) Roster(exclude domain.PeerID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&Tx{r: r}).Roster(exclude)
}

// Atomically runs fn while holding the registry lock.
// fn must only enqueue frames, never touch a socket.
func (r *Registry) Atomically(fn func(tx *Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(&Tx{r: r})
}

// Tx is the registry seen from inside Atomically. It must not escape fn.
type Tx struct {
	r *Registry
}

func (tx *Tx) Get(id domain.PeerID) (*PeerEntry, error) {
	entry, ok := tx.r.peers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownPeer, id)
	}
	return entry, nil
}

// SetName records the display name of a peer. A name is set once.
func (tx *Tx) SetName(id domain.PeerID, name string) error {
	entry, err := tx.Get(id)
	if err != nil {
		return err
	}
	if entry.Named() {
		return fmt.Errorf("%w: %s is %q", errors.ErrNameTaken, id, entry.Name())
	}
	entry.name = lo.ToPtr(name)
	return nil
}

func (tx *Tx) Remove(id domain.PeerID) (*PeerEntry, error) {
	entry, err := tx.Get(id)
	if err != nil {
		return nil, err
	}
	delete(tx.r.peers, id)
	entry.closed = true
	return entry, nil
}

// Roster lists the names of every named peer except exclude, sorted.
func (tx *Tx) Roster(exclude domain.PeerID) []string {
	names := lo.FilterMap(lo.Entries(tx.r.peers), func(e lo.Entry[domain.PeerID, *PeerEntry], _ int) (string, bool) {
		return e.Value.Name(), e.Key != exclude && e.Value.Named()
	})
	slices.Sort(names)
	return names
}

// Send queues a frame for a single peer.
func (tx *Tx) Send(id domain.PeerID, frame []byte) error {
	entry, err := tx.Get(id)
	if err != nil {
		return err
	}
	return entry.outbound.TryEnqueue(frame)
}

// Broadcast queues frame for every named peer except exclude.
// A failing target does not stop delivery to the others.
func (tx *Tx) Broadcast(exclude domain.PeerID, frame []byte) (delivered int, failures []Delivery) {
	for id, entry := range tx.r.peers {
		if id == exclude || !entry.Named() {
			continue
		}
		if err := entry.outbound.TryEnqueue(frame); err != nil {
			failures = append(failures, Delivery{Target: id, Err: err})
			continue
		}
		delivered++
	}
	return delivered, failures
}
