package wasm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleeper(t *testing.T) {
	tests := map[string]struct {
		max    time.Duration
		sleep  time.Duration
		stop   bool
		expMin time.Duration
		expMax time.Duration
	}{
		"A short sleep should block for the requested time.": {
			max:    time.Second,
			sleep:  20 * time.Millisecond,
			expMin: 20 * time.Millisecond,
			expMax: 900 * time.Millisecond,
		},

		"A long sleep should be clamped to the maximum.": {
			max:    20 * time.Millisecond,
			sleep:  time.Hour,
			expMin: 20 * time.Millisecond,
			expMax: 900 * time.Millisecond,
		},

		"Without a maximum the sleep should block for the requested time.": {
			sleep:  150 * time.Millisecond,
			expMin: 150 * time.Millisecond,
			expMax: 900 * time.Millisecond,
		},

		"A non positive sleep should return immediately.": {
			max:    time.Hour,
			sleep:  -1,
			expMax: 100 * time.Millisecond,
		},

		"A sleep after the invocation finished should return immediately.": {
			max:    time.Hour,
			sleep:  time.Hour,
			stop:   true,
			expMax: 100 * time.Millisecond,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			s := newSleeper(test.max)
			if test.stop {
				s.Stop()
			}

			start := time.Now()
			s.Sleep(int64(test.sleep))
			elapsed := time.Since(start)

			assert.GreaterOrEqual(elapsed, test.expMin)
			assert.Less(elapsed, test.expMax)
		})
	}
}

func TestSleeperStopWakesPendingSleep(t *testing.T) {
	s := newSleeper(time.Hour)

	done := make(chan struct{})
	go func() {
		s.Sleep(int64(time.Hour))
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Stop()
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sleep was not woken")
	}
}
