package quiz

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock provides time and timer scheduling to a Session.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules timers on the runtime's wall clock.
var SystemClock Clock = systemClock{}
