// Package paillier implements the Paillier public-key cryptosystem with its
// additive homomorphic operators.
//
// The Paillier cryptosystem is a probabilistic asymmetric scheme: encrypting
// the same plaintext twice yields different ciphertexts, yet arithmetic can be
// carried out on ciphertexts without the private key.
//
// # Key Operations
//
//   - GenerateKey(): create a keypair from a chosen modulus bit length
//   - Encrypt()/EncryptWithRand(): randomized encryption under the public key
//   - Decrypt(): recover the plaintext (requires the private key)
//   - Add()/Sub(): combine two ciphertexts (E(a)·E(b) decrypts to a+b mod n)
//   - MulScalar(): multiply an encrypted value by a plaintext scalar
//   - AddPlain(): add a plaintext constant to an encrypted value
//
// # Homomorphic Properties
//
// The scheme is additively homomorphic over Z_n:
//
//	E(m1) * E(m2) mod n²  decrypts to  m1 + m2 mod n
//	E(m)^k       mod n²  decrypts to  k * m   mod n
//
// Multiplication of two ciphertexts is not supported; that would require a
// different scheme.
//
// # Plaintext Domain
//
// Plaintexts live in [0, n). Inputs outside that range, including negative
// values, are reduced modulo n before encryption, so logical negatives map to
// their modular complement and subtraction wraps as expected.
package paillier
