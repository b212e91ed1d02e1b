package services

import "time"

// Clock supplies "now" to business logic. Injecting it keeps availability
// decisions deterministic in tests; nothing below the handlers reads the
// wall clock directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
