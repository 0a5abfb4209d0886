package phe

import "context"

// RoleID identifies one of the two fixed positions in a session.
type RoleID uint8

const (
	// RoleServer holds the key pair and answers requests.
	RoleServer RoleID = iota

	// RoleClient holds only the public key and submits requests.
	RoleClient
)

// String returns the role name.
func (r RoleID) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

// Peer returns the opposite role.
func (r RoleID) Peer() RoleID {
	if r == RoleServer {
		return RoleClient
	}
	return RoleServer
}

// Transport is the channel between the two roles: reliable, ordered delivery
// of one opaque payload per call. Implementations must be safe for
// concurrent use and must honor context cancellation on blocked calls.
// Transport failures propagate as-is; the roles wrap them in ErrTransport
// and never interpret them further.
type Transport interface {
	Send(ctx context.Context, to RoleID, payload []byte) error
	Receive(ctx context.Context, from RoleID) ([]byte, error)
}
