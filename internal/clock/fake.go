package clock

import "time"

// FakeClock is a manually advanced Clock for tests. It always reports UTC,
// matching the system clock.
type FakeClock struct {
	current time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start.UTC()}
}

func (f *FakeClock) Now() time.Time {
	return f.current
}

// Advance moves the reported time forward by d.
func (f *FakeClock) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}
