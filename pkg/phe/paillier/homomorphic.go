package paillier

import (
	"fmt"
	"math/big"
)

// The homomorphic operators need only the public key: plaintext addition
// modulo n corresponds to ciphertext multiplication modulo n², and plaintext
// scaling to ciphertext exponentiation. Every operator validates that its
// operands lie in [0, n²) before touching them.

// Add combines two ciphertexts into one that decrypts to m1 + m2 mod n.
func (pk *PublicKey) Add(c1, c2 *Ciphertext) (*Ciphertext, error) {
	n2 := pk.NSquared()
	if err := validateCiphertext(c1, n2); err != nil {
		return nil, err
	}
	if err := validateCiphertext(c2, n2); err != nil {
		return nil, err
	}
	res := new(big.Int).Mul(&c1.c, &c2.c)
	res.Mod(res, n2)
	return &Ciphertext{c: *res}, nil
}

// Sub combines two ciphertexts into one that decrypts to m1 - m2 mod n,
// including wraparound when m1 < m2. It needs the modular inverse of c2;
// a ciphertext sharing a factor with n² has none and is rejected.
func (pk *PublicKey) Sub(c1, c2 *Ciphertext) (*Ciphertext, error) {
	n2 := pk.NSquared()
	if err := validateCiphertext(c1, n2); err != nil {
		return nil, err
	}
	if err := validateCiphertext(c2, n2); err != nil {
		return nil, err
	}
	inv := new(big.Int).ModInverse(&c2.c, n2)
	if inv == nil {
		return nil, fmt.Errorf("%w: subtrahend shares a factor with n²", ErrNonInvertibleCiphertext)
	}
	res := inv.Mul(&c1.c, inv)
	res.Mod(res, n2)
	return &Ciphertext{c: *res}, nil
}

// MulScalar produces a ciphertext that decrypts to k·m mod n. This is the
// "semi-homomorphic" half of the scheme: the multiplier is a plaintext
// scalar, not another ciphertext. Negative scalars are reduced modulo n
// first, which leaves the decrypted result unchanged.
func (pk *PublicKey) MulScalar(c *Ciphertext, k *big.Int) (*Ciphertext, error) {
	n2 := pk.NSquared()
	if err := validateCiphertext(c, n2); err != nil {
		return nil, err
	}
	if k == nil {
		return nil, fmt.Errorf("%w: nil scalar", ErrInvalidPlaintext)
	}
	kr := new(big.Int).Mod(k, pk.N)
	res := new(big.Int).Exp(&c.c, kr, n2)
	return &Ciphertext{c: *res}, nil
}

// AddPlain produces a ciphertext that decrypts to m + k mod n without
// encrypting k separately: c · g^k mod n².
func (pk *PublicKey) AddPlain(c *Ciphertext, k *big.Int) (*Ciphertext, error) {
	n2 := pk.NSquared()
	if err := validateCiphertext(c, n2); err != nil {
		return nil, err
	}
	kr, err := pk.reduce(k)
	if err != nil {
		return nil, err
	}
	res := new(big.Int).Exp(pk.G, kr, n2)
	res.Mul(res, &c.c)
	res.Mod(res, n2)
	return &Ciphertext{c: *res}, nil
}
