package phe

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport indicates the channel between the roles failed. The
	// underlying cause is wrapped but never interpreted.
	ErrTransport = errors.New("phe: transport failure")

	// ErrHandshakeRequired indicates a client operation before Handshake.
	ErrHandshakeRequired = errors.New("phe: handshake not completed")

	// ErrUnexpectedMessage indicates the peer sent a message that does not
	// fit the current point in the exchange.
	ErrUnexpectedMessage = errors.New("phe: unexpected message")
)

// Error wraps an underlying error with the operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("phe.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(op string, format string, args ...interface{}) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf(format, args...),
	}
}

// RemoteError is a failure reported by the server for one request. The
// session remains usable after receiving one.
type RemoteError struct {
	RequestID string
	Code      string
	Message   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("phe: remote error %s: %s", e.Code, e.Message)
}
