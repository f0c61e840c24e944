package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now returns current UTC time truncated to milliseconds so that persisted
// timestamps round-trip unchanged.
func Now() time.Time { return NowFunc().UTC().Truncate(time.Millisecond) }

// Freeze pins Now to t and returns a function restoring the previous clock
func Freeze(t time.Time) func() {
	previous := NowFunc
	NowFunc = func() time.Time { return t }
	return func() { NowFunc = previous }
}
