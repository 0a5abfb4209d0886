package paillier

import (
	"fmt"
	"math/big"
)

// Ciphertext is an immutable encrypted value in [0, n²). It is opaque to
// anyone without the private key. Operators never modify their operands;
// they always return a fresh Ciphertext.
type Ciphertext struct {
	c big.Int
}

// NewCiphertext wraps an integer as a Ciphertext. The input is copied.
// Range validation against a particular key happens at use time.
func NewCiphertext(v *big.Int) *Ciphertext {
	ct := &Ciphertext{}
	if v != nil {
		ct.c.Set(v)
	}
	return ct
}

// BigInt returns a copy of the underlying integer.
func (ct *Ciphertext) BigInt() *big.Int {
	return new(big.Int).Set(&ct.c)
}

// Equal reports whether two ciphertexts hold the same value. Note that two
// encryptions of the same plaintext are almost never Equal; this compares
// ciphertext values, not plaintexts.
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	if other == nil {
		return false
	}
	return ct.c.Cmp(&other.c) == 0
}

// String returns the decimal representation of the ciphertext value.
func (ct *Ciphertext) String() string {
	return ct.c.String()
}

// MarshalJSON encodes the ciphertext as a decimal string.
func (ct Ciphertext) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ct.c.String() + `"`), nil
}

// UnmarshalJSON decodes a ciphertext from a decimal string.
func (ct *Ciphertext) UnmarshalJSON(p []byte) error {
	s := string(p)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	var z big.Int
	if _, ok := z.SetString(s, 10); !ok {
		return fmt.Errorf("%w: not a decimal integer: %q", ErrInvalidCiphertext, s)
	}
	ct.c = z
	return nil
}

// validateCiphertext enforces the operand range [0, n²).
func validateCiphertext(ct *Ciphertext, n2 *big.Int) error {
	if ct == nil {
		return fmt.Errorf("%w: nil ciphertext", ErrInvalidCiphertext)
	}
	if ct.c.Sign() < 0 || ct.c.Cmp(n2) >= 0 {
		return fmt.Errorf("%w: value outside [0, n²)", ErrInvalidCiphertext)
	}
	return nil
}
