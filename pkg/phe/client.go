package phe

import (
	"context"
	"encoding/hex"
	"math/big"

	"github.com/openphe/paillier-go/pkg/phe/logging"
	"github.com/openphe/paillier-go/pkg/phe/paillier"
	"github.com/openphe/paillier-go/pkg/phe/wire"
)

// Client is the key-less role. After Handshake it holds the server's public
// key and nothing else: it encrypts locally, combines ciphertexts locally
// when it wants to (the operators are pure and need no network), and asks
// the server only for what requires the private key.
type Client struct {
	transport Transport
	log       logging.Logger
	pub       *paillier.PublicKey
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger attaches a logger to the client role.
func WithClientLogger(l logging.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient creates the client role over the given transport.
func NewClient(t Transport, opts ...ClientOption) (*Client, error) {
	if t == nil {
		return nil, errorf("NewClient", "nil transport")
	}
	c := &Client{transport: t, log: logging.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("role", RoleClient.String())
	return c, nil
}

// Handshake receives the server's public key announcement. It must complete
// before any operation.
func (c *Client) Handshake(ctx context.Context) error {
	payload, err := c.transport.Receive(ctx, RoleServer)
	if err != nil {
		return errorf("Handshake", "%w: %v", ErrTransport, err)
	}
	msg, err := wire.Decode(payload)
	if err != nil {
		return errorf("Handshake", "%w", err)
	}
	keyMsg, ok := msg.(*wire.PublicKeyMsg)
	if !ok {
		return errorf("Handshake", "%w: want public key announcement", ErrUnexpectedMessage)
	}
	pub, err := paillier.NewPublicKey(keyMsg.N, keyMsg.G)
	if err != nil {
		return errorf("Handshake", "%w", err)
	}
	c.pub = pub
	c.log.Info(ctx, "received session key",
		"key", hex.EncodeToString(pub.Fingerprint()[:8]))
	return nil
}

// PublicKey returns the session key received during Handshake, or nil before
// it. The key is all a client ever holds; local encryption and homomorphic
// combination go through it directly.
func (c *Client) PublicKey() *paillier.PublicKey {
	return c.pub
}

// Add encrypts m1 and m2 and asks the server for the decrypted sum,
// (m1 + m2) mod n.
func (c *Client) Add(ctx context.Context, m1, m2 *big.Int) (*big.Int, error) {
	if c.pub == nil {
		return nil, errorf("Add", "%w", ErrHandshakeRequired)
	}
	e1, err := c.pub.Encrypt(m1)
	if err != nil {
		return nil, errorf("Add", "%w", err)
	}
	e2, err := c.pub.Encrypt(m2)
	if err != nil {
		return nil, errorf("Add", "%w", err)
	}
	return c.roundTrip(ctx, "Add", &wire.AddRequest{
		RequestID: wire.NewRequestID(),
		N:         c.pub.N,
		E1:        e1,
		E2:        e2,
	})
}

// Subtract encrypts m1 and m2 and asks the server for the decrypted
// difference, (m1 - m2) mod n. When m1 < m2 the result wraps.
func (c *Client) Subtract(ctx context.Context, m1, m2 *big.Int) (*big.Int, error) {
	if c.pub == nil {
		return nil, errorf("Subtract", "%w", ErrHandshakeRequired)
	}
	e1, err := c.pub.Encrypt(m1)
	if err != nil {
		return nil, errorf("Subtract", "%w", err)
	}
	e2, err := c.pub.Encrypt(m2)
	if err != nil {
		return nil, errorf("Subtract", "%w", err)
	}
	return c.roundTrip(ctx, "Subtract", &wire.SubRequest{
		RequestID: wire.NewRequestID(),
		N:         c.pub.N,
		E1:        e1,
		E2:        e2,
	})
}

// ScalarMultiply encrypts m and asks the server for the decrypted product
// (k * m) mod n. The multiplier k travels in plaintext; only m is encrypted.
func (c *Client) ScalarMultiply(ctx context.Context, m, k *big.Int) (*big.Int, error) {
	if c.pub == nil {
		return nil, errorf("ScalarMultiply", "%w", ErrHandshakeRequired)
	}
	ct, err := c.pub.Encrypt(m)
	if err != nil {
		return nil, errorf("ScalarMultiply", "%w", err)
	}
	if k == nil {
		return nil, errorf("ScalarMultiply", "%w: nil multiplier", paillier.ErrInvalidPlaintext)
	}
	return c.roundTrip(ctx, "ScalarMultiply", &wire.ScalarMulRequest{
		RequestID:  wire.NewRequestID(),
		N:          c.pub.N,
		Ciphertext: ct,
		Multiplier: k,
	})
}

// Decrypt submits an existing ciphertext, typically the output of local
// homomorphic combination, and returns the server's decryption of it.
func (c *Client) Decrypt(ctx context.Context, ct *paillier.Ciphertext) (*big.Int, error) {
	if c.pub == nil {
		return nil, errorf("Decrypt", "%w", ErrHandshakeRequired)
	}
	if ct == nil {
		return nil, errorf("Decrypt", "%w: nil ciphertext", paillier.ErrInvalidCiphertext)
	}
	return c.roundTrip(ctx, "Decrypt", &wire.DecryptRequest{
		RequestID:  wire.NewRequestID(),
		N:          c.pub.N,
		Ciphertext: ct,
	})
}

// roundTrip performs one request/response exchange and interprets the reply.
func (c *Client) roundTrip(ctx context.Context, op string, req wire.Message) (*big.Int, error) {
	payload, err := wire.Encode(req)
	if err != nil {
		return nil, errorf(op, "%w", err)
	}
	if err := c.transport.Send(ctx, RoleServer, payload); err != nil {
		return nil, errorf(op, "%w: %v", ErrTransport, err)
	}
	respPayload, err := c.transport.Receive(ctx, RoleServer)
	if err != nil {
		return nil, errorf(op, "%w: %v", ErrTransport, err)
	}
	resp, err := wire.Decode(respPayload)
	if err != nil {
		return nil, errorf(op, "%w", err)
	}

	requestID := requestIDOf(req)
	switch r := resp.(type) {
	case *wire.ResultResponse:
		if r.RequestID != requestID {
			return nil, errorf(op, "%w: response for request %q, want %q",
				ErrUnexpectedMessage, r.RequestID, requestID)
		}
		c.log.Debug(ctx, "request completed", "op", op, "request_id", requestID)
		return r.Result, nil
	case *wire.ErrorResponse:
		c.log.Warn(ctx, "request rejected", "op", op, "request_id", requestID, "code", r.Code)
		return nil, &RemoteError{RequestID: r.RequestID, Code: r.Code, Message: r.Message}
	default:
		return nil, errorf(op, "%w: %T", ErrUnexpectedMessage, resp)
	}
}

func requestIDOf(msg wire.Message) string {
	switch m := msg.(type) {
	case *wire.AddRequest:
		return m.RequestID
	case *wire.SubRequest:
		return m.RequestID
	case *wire.ScalarMulRequest:
		return m.RequestID
	case *wire.DecryptRequest:
		return m.RequestID
	default:
		return ""
	}
}
