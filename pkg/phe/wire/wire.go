package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/openphe/paillier-go/pkg/phe/paillier"
)

var (
	// ErrMessageDecode indicates a payload that could not be decoded into
	// any known message shape.
	ErrMessageDecode = errors.New("wire: malformed message")

	// ErrMessageEncode indicates a message with missing required fields
	// that cannot be put on the wire.
	ErrMessageEncode = errors.New("wire: unencodable message")
)

// Type tags the message shapes carried on the wire.
type Type string

const (
	TypePublicKey Type = "PUBKEY"
	TypeAdd       Type = "ADD"
	TypeSub       Type = "SUB"
	TypeScalarMul Type = "MUL"
	TypeDecrypt   Type = "DEC"
	TypeResult    Type = "RESULT"
	TypeError     Type = "ERROR"
)

// Error codes returned in an ErrorResponse. They mirror the validation
// errors of the cryptographic core plus the protocol-level failures.
const (
	CodeDecode             = "MALFORMED_MESSAGE"
	CodeKeyMismatch        = "KEY_MISMATCH"
	CodeInvalidCiphertext  = "INVALID_CIPHERTEXT"
	CodeInvalidPlaintext   = "INVALID_PLAINTEXT"
	CodeNonInvertible      = "NON_INVERTIBLE_CIPHERTEXT"
	CodeUnsupportedMessage = "UNSUPPORTED_MESSAGE"
	CodeInternal           = "INTERNAL"
)

// Message is the closed union of everything this protocol can carry.
type Message interface {
	wireType() Type
}

// PublicKeyMsg announces the server's public key, sent once per session
// before any request.
type PublicKeyMsg struct {
	N *big.Int
	G *big.Int
}

// AddRequest asks the server to combine two ciphertexts and return the
// decrypted sum.
type AddRequest struct {
	RequestID string
	N         *big.Int // modulus the client encrypted under
	E1        *paillier.Ciphertext
	E2        *paillier.Ciphertext
}

// SubRequest asks the server to combine two ciphertexts and return the
// decrypted difference.
type SubRequest struct {
	RequestID string
	N         *big.Int
	E1        *paillier.Ciphertext
	E2        *paillier.Ciphertext
}

// ScalarMulRequest asks the server to scale an encrypted value by a plaintext
// multiplier and return the decrypted product.
type ScalarMulRequest struct {
	RequestID  string
	N          *big.Int
	Ciphertext *paillier.Ciphertext
	Multiplier *big.Int
}

// DecryptRequest asks the server to decrypt a single ciphertext.
type DecryptRequest struct {
	RequestID  string
	N          *big.Int
	Ciphertext *paillier.Ciphertext
}

// ResultResponse carries the decrypted plaintext of a completed request.
type ResultResponse struct {
	RequestID string
	Result    *big.Int
}

// ErrorResponse reports a failed request. The exchange that produced it is
// over; the session itself survives.
type ErrorResponse struct {
	RequestID string
	Code      string
	Message   string
}

func (*PublicKeyMsg) wireType() Type     { return TypePublicKey }
func (*AddRequest) wireType() Type       { return TypeAdd }
func (*SubRequest) wireType() Type       { return TypeSub }
func (*ScalarMulRequest) wireType() Type { return TypeScalarMul }
func (*DecryptRequest) wireType() Type   { return TypeDecrypt }
func (*ResultResponse) wireType() Type   { return TypeResult }
func (*ErrorResponse) wireType() Type    { return TypeError }

// NewRequestID returns a fresh identifier for correlating a request with its
// response.
func NewRequestID() string {
	return uuid.NewString()
}

// envelope is the single JSON shape every message flattens into. Absent
// fields are omitted; which fields are required depends on the type tag.
type envelope struct {
	Type       Type   `json:"type"`
	RequestID  string `json:"request_id,omitempty"`
	N          string `json:"n,omitempty"`
	G          string `json:"g,omitempty"`
	E1         string `json:"e1,omitempty"`
	E2         string `json:"e2,omitempty"`
	Ciphertext string `json:"ciphertext,omitempty"`
	Multiplier string `json:"multiplier,omitempty"`
	Result     string `json:"result,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Encode serializes a message into its canonical byte form.
func Encode(msg Message) ([]byte, error) {
	env := envelope{Type: msg.wireType()}

	switch m := msg.(type) {
	case *PublicKeyMsg:
		if m.N == nil || m.G == nil {
			return nil, fmt.Errorf("%w: public key missing components", ErrMessageEncode)
		}
		env.N = m.N.String()
		env.G = m.G.String()
	case *AddRequest:
		if m.N == nil || m.E1 == nil || m.E2 == nil {
			return nil, fmt.Errorf("%w: add request missing operands", ErrMessageEncode)
		}
		env.RequestID = m.RequestID
		env.N = m.N.String()
		env.E1 = m.E1.String()
		env.E2 = m.E2.String()
	case *SubRequest:
		if m.N == nil || m.E1 == nil || m.E2 == nil {
			return nil, fmt.Errorf("%w: sub request missing operands", ErrMessageEncode)
		}
		env.RequestID = m.RequestID
		env.N = m.N.String()
		env.E1 = m.E1.String()
		env.E2 = m.E2.String()
	case *ScalarMulRequest:
		if m.N == nil || m.Ciphertext == nil || m.Multiplier == nil {
			return nil, fmt.Errorf("%w: scalar-mul request missing operands", ErrMessageEncode)
		}
		env.RequestID = m.RequestID
		env.N = m.N.String()
		env.Ciphertext = m.Ciphertext.String()
		env.Multiplier = m.Multiplier.String()
	case *DecryptRequest:
		if m.N == nil || m.Ciphertext == nil {
			return nil, fmt.Errorf("%w: decrypt request missing operands", ErrMessageEncode)
		}
		env.RequestID = m.RequestID
		env.N = m.N.String()
		env.Ciphertext = m.Ciphertext.String()
	case *ResultResponse:
		if m.Result == nil {
			return nil, fmt.Errorf("%w: result response missing result", ErrMessageEncode)
		}
		env.RequestID = m.RequestID
		env.Result = m.Result.String()
	case *ErrorResponse:
		if m.Code == "" {
			return nil, fmt.Errorf("%w: error response missing code", ErrMessageEncode)
		}
		env.RequestID = m.RequestID
		env.Code = m.Code
		env.Message = m.Message
	default:
		return nil, fmt.Errorf("%w: unknown message %T", ErrMessageEncode, msg)
	}

	return json.Marshal(env)
}

// Decode parses a payload back into one of the Message shapes. Any malformed
// payload yields ErrMessageDecode.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMessageDecode, err)
	}

	switch env.Type {
	case TypePublicKey:
		n, err := parseBig("n", env.N)
		if err != nil {
			return nil, err
		}
		g, err := parseBig("g", env.G)
		if err != nil {
			return nil, err
		}
		return &PublicKeyMsg{N: n, G: g}, nil

	case TypeAdd, TypeSub:
		n, err := parseBig("n", env.N)
		if err != nil {
			return nil, err
		}
		e1, err := parseCiphertext("e1", env.E1)
		if err != nil {
			return nil, err
		}
		e2, err := parseCiphertext("e2", env.E2)
		if err != nil {
			return nil, err
		}
		if env.Type == TypeAdd {
			return &AddRequest{RequestID: env.RequestID, N: n, E1: e1, E2: e2}, nil
		}
		return &SubRequest{RequestID: env.RequestID, N: n, E1: e1, E2: e2}, nil

	case TypeScalarMul:
		n, err := parseBig("n", env.N)
		if err != nil {
			return nil, err
		}
		ct, err := parseCiphertext("ciphertext", env.Ciphertext)
		if err != nil {
			return nil, err
		}
		k, err := parseBig("multiplier", env.Multiplier)
		if err != nil {
			return nil, err
		}
		return &ScalarMulRequest{RequestID: env.RequestID, N: n, Ciphertext: ct, Multiplier: k}, nil

	case TypeDecrypt:
		n, err := parseBig("n", env.N)
		if err != nil {
			return nil, err
		}
		ct, err := parseCiphertext("ciphertext", env.Ciphertext)
		if err != nil {
			return nil, err
		}
		return &DecryptRequest{RequestID: env.RequestID, N: n, Ciphertext: ct}, nil

	case TypeResult:
		result, err := parseBig("result", env.Result)
		if err != nil {
			return nil, err
		}
		return &ResultResponse{RequestID: env.RequestID, Result: result}, nil

	case TypeError:
		if env.Code == "" {
			return nil, fmt.Errorf(`%w: no "code" field in error response`, ErrMessageDecode)
		}
		return &ErrorResponse{RequestID: env.RequestID, Code: env.Code, Message: env.Message}, nil

	case "":
		return nil, fmt.Errorf(`%w: no "type" field`, ErrMessageDecode)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMessageDecode, env.Type)
	}
}

func parseBig(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: no %q field", ErrMessageDecode, field)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is not a decimal integer", ErrMessageDecode, field)
	}
	return v, nil
}

func parseCiphertext(field, s string) (*paillier.Ciphertext, error) {
	v, err := parseBig(field, s)
	if err != nil {
		return nil, err
	}
	return paillier.NewCiphertext(v), nil
}
