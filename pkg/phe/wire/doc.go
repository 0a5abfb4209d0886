// Package wire defines the canonical byte encoding exchanged between the two
// roles: the public key announcement, the four operation requests, and the
// result/error responses.
//
// Messages are JSON objects with a "type" tag; big integers travel as decimal
// strings. Decoding is all-or-nothing: a payload with a missing field, an
// unknown type, or a non-decimal integer is rejected outright rather than
// partially interpreted.
//
// The private key is not a representable payload: no type in this package
// carries one and no encoder accepts one. That guarantee is structural and is
// enforced by a static-analysis test in the internalcheck package.
package wire
