package wasm

import (
	"sync"
	"time"
)

// sleeper services the guest nanosleep calls of a single invocation.
// Sleeps block the calling goroutine only, are clamped to max when it is positive
// and are woken early once the invocation finishes.
type sleeper struct {
	max  time.Duration
	done chan struct{}
	once sync.Once
}

func newSleeper(max time.Duration) *sleeper {
	return &sleeper{
		max:  max,
		done: make(chan struct{}),
	}
}

// Sleep matches wazero sys.Nanosleep.
func (s *sleeper) Sleep(ns int64) {
	d := time.Duration(ns)
	if d <= 0 {
		return
	}
	if s.max > 0 && d > s.max {
		d = s.max
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-s.done:
	}
}

// Stop wakes any pending sleep and makes later ones return immediately.
func (s *sleeper) Stop() {
	s.once.Do(func() { close(s.done) })
}
