package paillier

import (
	"fmt"
	"math/big"
	"os"
	"strings"
)

// Keys persist as plain text, one decimal value per line: the public key as
// (n, g), the private key as (λ, μ, n). The private key file is written with
// owner-only permissions; keeping it out of any other role's reach is the
// operator's job beyond that.

// SavePublicKey writes pk to path, world-readable.
func SavePublicKey(path string, pk *PublicKey) error {
	data := pk.N.String() + "\n" + pk.G.String() + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("paillier: write public key: %w", err)
	}
	return nil
}

// LoadPublicKey reads a public key previously written by SavePublicKey.
func LoadPublicKey(path string) (*PublicKey, error) {
	fields, err := readKeyLines(path, 2)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(fields[0], fields[1])
}

// SavePrivateKey writes sk to path with owner-only permissions.
func SavePrivateKey(path string, sk *PrivateKey) error {
	data := sk.Lambda.String() + "\n" + sk.Mu.String() + "\n" + sk.N.String() + "\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		return fmt.Errorf("paillier: write private key: %w", err)
	}
	return nil
}

// LoadPrivateKey reads a private key previously written by SavePrivateKey.
func LoadPrivateKey(path string) (*PrivateKey, error) {
	fields, err := readKeyLines(path, 3)
	if err != nil {
		return nil, err
	}
	lambda, mu, n := fields[0], fields[1], fields[2]
	if lambda.Sign() <= 0 || mu.Sign() <= 0 || n.Cmp(big.NewInt(3)) < 0 {
		return nil, fmt.Errorf("%w: non-positive component", ErrKeyFormat)
	}
	return &PrivateKey{
		Lambda: lambda,
		Mu:     mu,
		N:      n,
		n2:     new(big.Int).Mul(n, n),
	}, nil
}

func readKeyLines(path string, want int) ([]*big.Int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("paillier: read key file: %w", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != want {
		return nil, fmt.Errorf("%w: expected %d lines, got %d", ErrKeyFormat, want, len(lines))
	}
	out := make([]*big.Int, want)
	for i, line := range lines {
		v, ok := new(big.Int).SetString(strings.TrimSpace(line), 10)
		if !ok {
			return nil, fmt.Errorf("%w: line %d is not a decimal integer", ErrKeyFormat, i+1)
		}
		out[i] = v
	}
	return out, nil
}
