package mocknet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openphe/paillier-go/pkg/phe"
)

// queueDepth is the number of in-flight payloads per direction before a
// sender blocks. The protocol is strictly request/response, so anything
// above 1 only matters for tests that pipeline deliberately.
const queueDepth = 16

// Net is one simulated session: two directed queues, one per direction.
type Net struct {
	mu sync.Mutex
	q  map[direction]chan []byte
}

type direction struct {
	from, to phe.RoleID
}

// New creates an empty in-memory session.
func New() *Net {
	return &Net{q: make(map[direction]chan []byte)}
}

func (n *Net) slot(d direction) chan []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := n.q[d]
	if ch == nil {
		ch = make(chan []byte, queueDepth)
		n.q[d] = ch
	}
	return ch
}

// Endpoint binds one role of the session. Both roles must come from the same
// Net to talk to each other.
func (n *Net) Endpoint(self phe.RoleID) *Endpoint {
	return &Endpoint{net: n, self: self}
}

// Endpoint is one role's view of the session.
type Endpoint struct {
	net  *Net
	self phe.RoleID
}

// Send delivers a copy of the payload to the peer's queue, blocking only
// when the queue is full.
func (e *Endpoint) Send(ctx context.Context, to phe.RoleID, payload []byte) error {
	if to == e.self {
		return errors.New("mocknet: send to self")
	}
	if to != e.self.Peer() {
		return fmt.Errorf("mocknet: unknown role %d", to)
	}
	msg := append([]byte(nil), payload...)
	select {
	case e.net.slot(direction{from: e.self, to: to}) <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive blocks until the peer has sent a payload or ctx is done.
func (e *Endpoint) Receive(ctx context.Context, from phe.RoleID) ([]byte, error) {
	if from == e.self {
		return nil, errors.New("mocknet: receive from self")
	}
	if from != e.self.Peer() {
		return nil, fmt.Errorf("mocknet: unknown role %d", from)
	}
	select {
	case msg := <-e.net.slot(direction{from: from, to: e.self}):
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var _ phe.Transport = (*Endpoint)(nil)
