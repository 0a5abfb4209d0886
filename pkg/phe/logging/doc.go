// Package logging provides the small structured-logging surface used by the
// server and client roles. It wraps log/slog behind an interface so callers
// can substitute their own implementation, and carries a redaction helper so
// private key material never reaches a log line.
package logging
