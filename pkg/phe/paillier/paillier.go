package paillier

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// MinKeyBits is the smallest accepted modulus bit length. Anything below
// this cannot hold two distinct primes with enough margin to be meaningful,
// even for testing.
const MinKeyBits = 64

// maxKeygenAttempts bounds the prime re-sampling loop in key generation.
const maxKeygenAttempts = 64

// maxNonceAttempts bounds the randomizer sampling loop in encryption.
const maxNonceAttempts = 32

var one = big.NewInt(1)

// PublicKey holds the public half of a Paillier keypair: the modulus n = p·q
// and the generator g. n is the plaintext modulus; n² is the ciphertext
// modulus. A PublicKey is read-only after construction.
type PublicKey struct {
	N *big.Int
	G *big.Int

	n2 *big.Int // N², cached
}

// PrivateKey holds the private half of a Paillier keypair: the Carmichael
// exponent λ = lcm(p-1, q-1), the decryption coefficient μ, and the modulus n.
// A PrivateKey is read-only after construction and must never leave the
// key-holding role.
type PrivateKey struct {
	Lambda *big.Int
	Mu     *big.Int
	N      *big.Int

	n2 *big.Int // N², cached
}

// KeyPair bundles the two halves of a key generated together.
type KeyPair struct {
	Public  *PublicKey
	Private *PrivateKey
}

// NewPublicKey builds a PublicKey from its components, validating the obvious
// structural requirements. Used when receiving or loading a key.
func NewPublicKey(n, g *big.Int) (*PublicKey, error) {
	if n == nil || g == nil {
		return nil, fmt.Errorf("%w: missing modulus or generator", ErrKeyFormat)
	}
	if n.Cmp(big.NewInt(3)) < 0 {
		return nil, fmt.Errorf("%w: modulus too small", ErrKeyFormat)
	}
	n2 := new(big.Int).Mul(n, n)
	if g.Sign() <= 0 || g.Cmp(n2) >= 0 {
		return nil, fmt.Errorf("%w: generator out of range", ErrKeyFormat)
	}
	return &PublicKey{
		N:  new(big.Int).Set(n),
		G:  new(big.Int).Set(g),
		n2: n2,
	}, nil
}

// NSquared returns the ciphertext modulus n².
func (pk *PublicKey) NSquared() *big.Int {
	if pk.n2 != nil {
		return pk.n2
	}
	return new(big.Int).Mul(pk.N, pk.N)
}

// Equal reports whether two public keys share the same modulus and generator.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return pk.N.Cmp(other.N) == 0 && pk.G.Cmp(other.G) == 0
}

// Fingerprint returns a SHA3-256 digest over the canonical encoding of the
// key. It identifies a key in logs and lets a client confirm which key it
// received without comparing full moduli.
func (pk *PublicKey) Fingerprint() []byte {
	h := sha3.New256()
	writeLenPrefixed(h, pk.N.Bytes())
	writeLenPrefixed(h, pk.G.Bytes())
	return h.Sum(nil)
}

func writeLenPrefixed(h io.Writer, b []byte) {
	var lenBuf [4]byte
	lenBuf[0] = byte(len(b) >> 24)
	lenBuf[1] = byte(len(b) >> 16)
	lenBuf[2] = byte(len(b) >> 8)
	lenBuf[3] = byte(len(b))
	h.Write(lenBuf[:])
	h.Write(b)
}

// NSquared returns the ciphertext modulus n².
func (sk *PrivateKey) NSquared() *big.Int {
	if sk.n2 != nil {
		return sk.n2
	}
	return new(big.Int).Mul(sk.N, sk.N)
}

// GenerateKey produces a fresh keypair with a modulus of the given bit
// length, using the platform's cryptographic random source.
func GenerateKey(bits int) (*KeyPair, error) {
	return GenerateKeyWithRand(rand.Reader, bits)
}

// GenerateKeyWithRand is GenerateKey with an explicit entropy source. The
// source must be cryptographically suitable outside of tests.
//
// Two primes of bits/2 each are sampled until distinct, g is fixed to n+1,
// and the decryption coefficient μ = (L(g^λ mod n²))⁻¹ mod n is verified to
// exist. With g = n+1 the inverse cannot fail for distinct primes, but the
// check stays as a correctness gate: a failed draw discards p, q entirely.
func GenerateKeyWithRand(random io.Reader, bits int) (*KeyPair, error) {
	if bits < MinKeyBits {
		return nil, fmt.Errorf("%w: bit length %d below minimum %d", ErrKeyGeneration, bits, MinKeyBits)
	}

	for attempt := 0; attempt < maxKeygenAttempts; attempt++ {
		p, err := rand.Prime(random, bits/2)
		if err != nil {
			return nil, fmt.Errorf("%w: sampling p: %v", ErrKeyGeneration, err)
		}
		q, err := rand.Prime(random, bits/2)
		if err != nil {
			return nil, fmt.Errorf("%w: sampling q: %v", ErrKeyGeneration, err)
		}
		if p.Cmp(q) == 0 {
			continue
		}

		n := new(big.Int).Mul(p, q)
		n2 := new(big.Int).Mul(n, n)
		g := new(big.Int).Add(n, one)

		// λ = lcm(p-1, q-1) = (p-1)(q-1) / gcd(p-1, q-1)
		pMinus1 := new(big.Int).Sub(p, one)
		qMinus1 := new(big.Int).Sub(q, one)
		lambda := new(big.Int).Mul(pMinus1, qMinus1)
		lambda.Div(lambda, new(big.Int).GCD(nil, nil, pMinus1, qMinus1))

		u := new(big.Int).Exp(g, lambda, n2)
		mu := new(big.Int).ModInverse(lFunc(u, n), n)
		if mu == nil {
			continue
		}

		return &KeyPair{
			Public:  &PublicKey{N: n, G: g, n2: n2},
			Private: &PrivateKey{Lambda: lambda, Mu: mu, N: n, n2: n2},
		}, nil
	}

	return nil, fmt.Errorf("%w: exhausted %d attempts", ErrKeyGeneration, maxKeygenAttempts)
}

// lFunc is the Paillier L function, L(u) = (u-1)/n. The division is exact for
// every u ≡ 1 (mod n), which holds by construction for its call sites.
func lFunc(u, n *big.Int) *big.Int {
	t := new(big.Int).Sub(u, one)
	return t.Div(t, n)
}

// reduce maps an arbitrary integer into the plaintext domain [0, n).
// Negative values land on their modular complement.
func (pk *PublicKey) reduce(m *big.Int) (*big.Int, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil value", ErrInvalidPlaintext)
	}
	return new(big.Int).Mod(m, pk.N), nil
}

// Encrypt encrypts m under the public key with a fresh randomizer from the
// platform's cryptographic random source. Repeated calls with the same m
// produce different ciphertexts.
func (pk *PublicKey) Encrypt(m *big.Int) (*Ciphertext, error) {
	return pk.EncryptWithRand(rand.Reader, m)
}

// EncryptWithRand is Encrypt with an explicit entropy source.
func (pk *PublicKey) EncryptWithRand(random io.Reader, m *big.Int) (*Ciphertext, error) {
	r, err := pk.sampleNonce(random)
	if err != nil {
		return nil, err
	}
	return pk.EncryptWithNonce(m, r)
}

// EncryptWithNonce encrypts m with a caller-chosen randomizer r. r must be a
// unit in [1, n). Intended for deterministic tests; use Encrypt elsewhere.
func (pk *PublicKey) EncryptWithNonce(m, r *big.Int) (*Ciphertext, error) {
	mr, err := pk.reduce(m)
	if err != nil {
		return nil, err
	}
	if r == nil || r.Sign() <= 0 || r.Cmp(pk.N) >= 0 {
		return nil, fmt.Errorf("%w: randomizer out of range", ErrEncryption)
	}
	if new(big.Int).GCD(nil, nil, r, pk.N).Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: randomizer not coprime to modulus", ErrEncryption)
	}

	n2 := pk.NSquared()
	// c = g^m · r^n mod n²
	c := new(big.Int).Exp(pk.G, mr, n2)
	c.Mul(c, new(big.Int).Exp(r, pk.N, n2))
	c.Mod(c, n2)
	return &Ciphertext{c: *c}, nil
}

// sampleNonce draws r uniformly from [1, n) with gcd(r, n) = 1. A collision
// with a factor of n is astronomically unlikely for real key sizes, but the
// loop checks anyway and gives up after a bounded number of draws.
func (pk *PublicKey) sampleNonce(random io.Reader) (*big.Int, error) {
	for attempt := 0; attempt < maxNonceAttempts; attempt++ {
		r, err := rand.Int(random, pk.N)
		if err != nil {
			return nil, fmt.Errorf("%w: sampling randomizer: %v", ErrEncryption, err)
		}
		if r.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, r, pk.N).Cmp(one) != 0 {
			continue
		}
		return r, nil
	}
	return nil, fmt.Errorf("%w: exhausted %d randomizer draws", ErrEncryption, maxNonceAttempts)
}

// Decrypt recovers the plaintext in [0, n) from a ciphertext. The recovery is
// exact: decrypt(encrypt(m)) == m for every m in the plaintext domain.
func (sk *PrivateKey) Decrypt(ct *Ciphertext) (*big.Int, error) {
	n2 := sk.NSquared()
	if err := validateCiphertext(ct, n2); err != nil {
		return nil, err
	}
	// m = L(c^λ mod n²) · μ mod n
	u := new(big.Int).Exp(&ct.c, sk.Lambda, n2)
	m := lFunc(u, sk.N)
	m.Mul(m, sk.Mu)
	return m.Mod(m, sk.N), nil
}
