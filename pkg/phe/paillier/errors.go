package paillier

import "errors"

var (
	// ErrKeyGeneration indicates the requested bit length is unusable or
	// prime sampling exhausted its retry budget.
	ErrKeyGeneration = errors.New("paillier: key generation failed")

	// ErrEncryption indicates the randomizer sampling loop exhausted its
	// retry budget without finding a unit modulo n.
	ErrEncryption = errors.New("paillier: encryption failed")

	// ErrInvalidPlaintext indicates a missing or unusable plaintext value.
	ErrInvalidPlaintext = errors.New("paillier: invalid plaintext")

	// ErrInvalidCiphertext indicates a ciphertext outside [0, n²).
	ErrInvalidCiphertext = errors.New("paillier: ciphertext out of range")

	// ErrNonInvertibleCiphertext indicates a ciphertext sharing a factor
	// with the modulus. A validly generated ciphertext is a unit mod n²,
	// so this signals corruption or an adversarial input.
	ErrNonInvertibleCiphertext = errors.New("paillier: ciphertext has no modular inverse")

	// ErrKeyFormat indicates a malformed persisted key file.
	ErrKeyFormat = errors.New("paillier: malformed key file")
)
