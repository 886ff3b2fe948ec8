package watch

import "time"

// Clock supplies the current instant. Injected so derivations are
// reproducible; nothing below this package reads the wall clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
