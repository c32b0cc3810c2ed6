package schedule

import "time"

// Clock supplies the current UTC time.  Threading a Clock through the
// generator keeps timestamping deterministic in tests; production code uses
// SystemClock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the wall clock, normalized to UTC.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock that always reports the given instant.  It is
// intended for tests.
func FixedClock(t time.Time) Clock { return fixedClock{t: t.UTC()} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }
