package phe

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/openphe/paillier-go/pkg/phe/logging"
	"github.com/openphe/paillier-go/pkg/phe/paillier"
	"github.com/openphe/paillier-go/pkg/phe/wire"
)

// Server is the key-holding role. It owns the only copy of the private key,
// publishes the public key at the start of each session, and answers one
// request per exchange: combine (when asked), decrypt, reply.
//
// The key pair is read-only after construction, so a single Server may run
// any number of sessions concurrently, one Run call per transport.
type Server struct {
	keys *paillier.KeyPair
	log  logging.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger attaches a logger to the server role.
func WithServerLogger(l logging.Logger) ServerOption {
	return func(s *Server) { s.log = l }
}

// NewServer creates the server role around a generated key pair.
func NewServer(keys *paillier.KeyPair, opts ...ServerOption) (*Server, error) {
	if keys == nil || keys.Public == nil || keys.Private == nil {
		return nil, errorf("NewServer", "incomplete key pair")
	}
	s := &Server{keys: keys, log: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("role", RoleServer.String(),
		"key", hex.EncodeToString(keys.Public.Fingerprint()[:8]))
	return s, nil
}

// PublicKey returns the public half of the server's key pair.
func (s *Server) PublicKey() *paillier.PublicKey {
	return s.keys.Public
}

// Run serves one session over the given transport: it announces the public
// key, then answers requests until ctx is cancelled or the transport fails.
// A request that fails validation answers the client with an error code and
// the loop continues; only transport failures end the session abnormally.
func (s *Server) Run(ctx context.Context, t Transport) error {
	payload, err := wire.Encode(&wire.PublicKeyMsg{N: s.keys.Public.N, G: s.keys.Public.G})
	if err != nil {
		return errorf("Run", "encode public key: %w", err)
	}
	if err := t.Send(ctx, RoleClient, payload); err != nil {
		return errorf("Run", "%w: publish public key: %v", ErrTransport, err)
	}
	s.log.Info(ctx, "session started, public key published")

	for {
		payload, err := t.Receive(ctx, RoleClient)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info(ctx, "session closed")
				return nil
			}
			return errorf("Run", "%w: %v", ErrTransport, err)
		}

		resp := s.handle(ctx, payload)
		out, err := wire.Encode(resp)
		if err != nil {
			return errorf("Run", "encode response: %w", err)
		}
		if err := t.Send(ctx, RoleClient, out); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errorf("Run", "%w: %v", ErrTransport, err)
		}
	}
}

// handle decodes one request, performs the requested combination and
// decryption, and builds the response. It never returns a wrong result in
// place of an error: every failure maps to an error code for the client.
func (s *Server) handle(ctx context.Context, payload []byte) wire.Message {
	msg, err := wire.Decode(payload)
	if err != nil {
		s.log.Warn(ctx, "undecodable request", "err", err)
		return &wire.ErrorResponse{Code: wire.CodeDecode, Message: err.Error()}
	}

	switch req := msg.(type) {
	case *wire.AddRequest:
		return s.combineAndDecrypt(ctx, "add", req.RequestID, req.N, func() (*paillier.Ciphertext, error) {
			return s.keys.Public.Add(req.E1, req.E2)
		})
	case *wire.SubRequest:
		return s.combineAndDecrypt(ctx, "subtract", req.RequestID, req.N, func() (*paillier.Ciphertext, error) {
			return s.keys.Public.Sub(req.E1, req.E2)
		})
	case *wire.ScalarMulRequest:
		return s.combineAndDecrypt(ctx, "scalar_multiply", req.RequestID, req.N, func() (*paillier.Ciphertext, error) {
			return s.keys.Public.MulScalar(req.Ciphertext, req.Multiplier)
		})
	case *wire.DecryptRequest:
		return s.combineAndDecrypt(ctx, "decrypt", req.RequestID, req.N, func() (*paillier.Ciphertext, error) {
			return req.Ciphertext, nil
		})
	default:
		s.log.Warn(ctx, "unsupported request", "type", fmt.Sprintf("%T", msg))
		return &wire.ErrorResponse{
			Code:    wire.CodeUnsupportedMessage,
			Message: "message is not an operation request",
		}
	}
}

// combineAndDecrypt runs one operation end to end: key check, homomorphic
// combination, decryption.
func (s *Server) combineAndDecrypt(ctx context.Context, op, requestID string, reqN *big.Int, combine func() (*paillier.Ciphertext, error)) wire.Message {
	log := s.log.With("op", op, "request_id", requestID)

	if reqN == nil || reqN.Cmp(s.keys.Public.N) != 0 {
		log.Warn(ctx, "request encrypted under a different key")
		return &wire.ErrorResponse{
			RequestID: requestID,
			Code:      wire.CodeKeyMismatch,
			Message:   "request modulus does not match the session key",
		}
	}

	ct, err := combine()
	if err != nil {
		log.Warn(ctx, "combination rejected", "err", err)
		return &wire.ErrorResponse{RequestID: requestID, Code: codeFor(err), Message: err.Error()}
	}

	m, err := s.keys.Private.Decrypt(ct)
	if err != nil {
		log.Warn(ctx, "decryption rejected", "err", err)
		return &wire.ErrorResponse{RequestID: requestID, Code: codeFor(err), Message: err.Error()}
	}

	log.Info(ctx, "request served", logging.Redacted("result"))
	return &wire.ResultResponse{RequestID: requestID, Result: m}
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, paillier.ErrInvalidCiphertext):
		return wire.CodeInvalidCiphertext
	case errors.Is(err, paillier.ErrNonInvertibleCiphertext):
		return wire.CodeNonInvertible
	case errors.Is(err, paillier.ErrInvalidPlaintext):
		return wire.CodeInvalidPlaintext
	default:
		return wire.CodeInternal
	}
}
