// Package internalcheck provides internal validation and testing utilities.
//
// This package contains static-analysis tests that enforce library-wide
// policies, such as keeping secret material out of log format strings and
// keeping private-key types off the wire. It is not intended for external
// use and the API may change without notice.
//
// # Internal Use Only
//
// This package is part of the internal implementation and should not be
// imported by applications. Use the public API provided by pkg/phe and its
// subpackages instead.
package internalcheck
