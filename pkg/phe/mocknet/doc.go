// Package mocknet provides an in-memory Transport for tests and demos. It
// delivers payloads between the two roles through ordered per-direction
// queues, honoring context cancellation on blocked sends and receives.
package mocknet
