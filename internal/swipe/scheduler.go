package swipe

import (
	"sync"
	"time"
)

// Timer is a scheduled animation completion that has not fired yet.
type Timer interface {
	Stop() bool
}

// Scheduler tells time and runs animation completions after a delay.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// realScheduler is backed by the runtime timers.
type realScheduler struct{}

func (realScheduler) Now() time.Time { return time.Now() }

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealTime returns the scheduler that uses the system clock.
func RealTime() Scheduler {
	return realScheduler{}
}

// Serialized returns a scheduler whose completions run while holding mu. Controllers are not safe
// for concurrent use, so whoever drives them with mu held must also run their completions that
// way.
func Serialized(s Scheduler, mu sync.Locker) Scheduler {
	return serialized{inner: s, mu: mu}
}

type serialized struct {
	inner Scheduler
	mu    sync.Locker
}

func (s serialized) Now() time.Time { return s.inner.Now() }

func (s serialized) AfterFunc(d time.Duration, f func()) Timer {
	return s.inner.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		f()
	})
}
