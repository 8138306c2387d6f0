package engine

import "time"

// Timer is a cancelable delayed call handle.
type Timer interface {
	// Stop cancels the timer. It reports whether the call was prevented from
	// running.
	Stop() bool
}

// Clock abstracts time so the scheduler can be driven deterministically in
// tests.
type Clock interface {
	Now() time.Time
	// AfterFunc runs fn on its own goroutine after d elapses.
	AfterFunc(d time.Duration, fn func()) Timer
}

// systemClock is the real-time Clock.
type systemClock struct{}

// SystemClock returns the wall-clock Clock used outside tests.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
