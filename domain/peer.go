package domain

// PeerID identifies one accepted socket. The remote address is unique enough.
type PeerID string

type PeerState int

const (
	Unnamed PeerState = iota
	Named
	Closed
)

func (s PeerState) String() string {
	switch s {
	case Unnamed:
		return "unnamed"
	case Named:
		return "named"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
