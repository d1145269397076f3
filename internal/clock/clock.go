package clock

import "time"

// Clock supplies the current instant. Anything time-dependent takes one
// so tests can pin or sequence time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }
