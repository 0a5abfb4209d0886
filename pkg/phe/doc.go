// Package phe wires the Paillier cryptosystem to a two-role request/response
// protocol: a Server that owns the key pair and performs decryption, and a
// Client that holds only the public key and submits encrypted values for
// homomorphic combination.
//
// The packages compose bottom-up: paillier is the pure cryptographic core,
// wire is the canonical message encoding, and this package runs the two roles
// over any Transport. mocknet provides an in-memory Transport for tests;
// examples/tlsnet provides an mTLS-backed one.
//
// A session is synchronous: the server announces its public key once, then
// answers one request per exchange. The key pair is immutable after
// generation, so one Server may serve any number of concurrent sessions.
package phe
