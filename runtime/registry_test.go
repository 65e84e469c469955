package runtime

import (
	"lanchat/domain"
	"lanchat/errors"
	"lanchat/mocks"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegistry_Insert_Unnamed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()

	// Given no peer is connected
	req.Zero(registry.Len())

	// When a peer is accepted
	registry.Insert("10.0.0.1:1000", mocks.NewMockOutbound(ctrl))

	// Then it is registered without a name
	req.Equal(1, registry.Len())
	err := registry.Atomically(func(tx *Tx) error {
		entry, err := tx.Get("10.0.0.1:1000")
		req.NoError(err)
		req.False(entry.Named())
		req.Equal(domain.Unnamed, entry.State())
		return nil
	})
	req.NoError(err)
	connected, named := registry.Counts()
	req.Equal(1, connected)
	req.Zero(named)
}

func TestRegistry_Name_Is_Set_Once(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()
	registry.Insert("a", mocks.NewMockOutbound(ctrl))

	err := registry.Atomically(func(tx *Tx) error {
		return tx.SetName("a", "Alice")
	})
	req.NoError(err)

	err = registry.Atomically(func(tx *Tx) error {
		return tx.SetName("a", "Mallory")
	})
	req.ErrorIs(err, errors.ErrNameTaken)

	_ = registry.Atomically(func(tx *Tx) error {
		entry, err := tx.Get("a")
		req.NoError(err)
		req.Equal("Alice", entry.Name())
		req.Equal(domain.Named, entry.State())
		return nil
	})
}

func TestRegistry_Unknown_Peer(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, err := registry.Remove("ghost")
	req.ErrorIs(err, errors.ErrUnknownPeer)

	err = registry.Atomically(func(tx *Tx) error {
		return tx.SetName("ghost", "Casper")
	})
	req.ErrorIs(err, errors.ErrUnknownPeer)

	err = registry.Atomically(func(tx *Tx) error {
		return tx.Send("ghost", []byte("boo\r\n"))
	})
	req.ErrorIs(err, errors.ErrUnknownPeer)
}

func TestRegistry_Roster_Excludes_Self_And_Unnamed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()

	// Given Carol, Alice, Bob named and one unnamed peer
	for _, id := range []domain.PeerID{"c", "a", "b", "u"} {
		registry.Insert(id, mocks.NewMockOutbound(ctrl))
	}
	err := registry.Atomically(func(tx *Tx) error {
		req.NoError(tx.SetName("c", "Carol"))
		req.NoError(tx.SetName("a", "Alice"))
		return tx.SetName("b", "Bob")
	})
	req.NoError(err)

	// Then the roster seen by Alice is sorted and contains neither Alice nor the unnamed peer
	req.Equal([]string{"Bob", "Carol"}, registry.Roster("a"))
	req.Equal([]string{"Alice", "Bob", "Carol"}, registry.Roster("u"))
	_, named := registry.Counts()
	req.Equal(3, named)
}

func TestRegistry_Broadcast_Skips_Sender_And_Unnamed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()
	frame := []byte("Alice: hi\r\n")

	alice := mocks.NewMockOutbound(ctrl)
	bob := mocks.NewMockOutbound(ctrl)
	carol := mocks.NewMockOutbound(ctrl)
	stranger := mocks.NewMockOutbound(ctrl)

	// Only Bob and Carol are expected to receive the frame, Carol's queue is full
	bob.EXPECT().TryEnqueue(frame).Return(nil).Times(1)
	carol.EXPECT().TryEnqueue(frame).Return(errors.ErrQueueFull).Times(1)

	registry.Insert("alice", alice)
	registry.Insert("bob", bob)
	registry.Insert("carol", carol)
	registry.Insert("stranger", stranger)

	err := registry.Atomically(func(tx *Tx) error {
		req.NoError(tx.SetName("alice", "Alice"))
		req.NoError(tx.SetName("bob", "Bob"))
		req.NoError(tx.SetName("carol", "Carol"))

		delivered, failures := tx.Broadcast("alice", frame)

		req.Equal(1, delivered)
		req.Equal([]Delivery{{Target: "carol", Err: errors.ErrQueueFull}}, failures)
		return nil
	})
	req.NoError(err)
}

func TestRegistry_Remove(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()
	registry.Insert("a", mocks.NewMockOutbound(ctrl))

	entry, err := registry.Remove("a")

	req.NoError(err)
	req.NotNil(entry)
	req.Zero(registry.Len())
}

func TestRegistry_Backlog_Sums_Queues(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()
	alice := mocks.NewMockOutbound(ctrl)
	bob := mocks.NewMockOutbound(ctrl)
	alice.EXPECT().Len().Return(3)
	bob.EXPECT().Len().Return(4)

	registry.Insert("10.0.0.1:1000", alice)
	registry.Insert("10.0.0.2:1000", bob)

	req.Equal(7, registry.Backlog())
}

func TestRegistry_Insert_Refuses_Duplicate_Id(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()
	first := mocks.NewMockOutbound(ctrl)
	first.EXPECT().Len().Return(2)

	req.NoError(registry.Insert("10.0.0.1:1000", first))
	err := registry.Insert("10.0.0.1:1000", mocks.NewMockOutbound(ctrl))

	req.ErrorIs(err, errors.ErrPeerExists)
	req.Equal(1, registry.Len())
	req.Equal(2, registry.Backlog())
}

func TestRegistry_Removed_Entry_Is_Closed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()
	req.NoError(registry.Insert("a", mocks.NewMockOutbound(ctrl)))

	entry, err := registry.Remove("a")

	req.NoError(err)
	req.Equal(domain.Closed, entry.State())
	req.Zero(registry.Len())
}
