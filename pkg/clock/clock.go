// Package clock gives the Store and Engine a single injectable time source instead of letting them call
// time.Now directly, so expiration arithmetic is deterministic under test.
package clock

import "github.com/benbjohnson/clock"

// Clock is the capability every time-sensitive operation (eager-expire checks, TTL arithmetic, Set's
// relative/absolute expiration math) reads through.
type Clock = clock.Clock

// Mock is a Clock whose Now() only moves when Set or Add is called; tests use it to drive expiration
// deterministically instead of sleeping real wall-clock time.
type Mock = clock.Mock

// New returns the real, wall-clock-backed implementation used by the production server.
func New() Clock {
	return clock.New()
}

// NewMock returns a fake clock seeded at the Unix epoch.
func NewMock() *Mock {
	return clock.NewMock()
}
