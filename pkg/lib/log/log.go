// Package log exposes the logger used by the bopbridge SDK.
//
// Any [Logger] implementation is accepted, [Noop] is used when none is set.
// Applications already using logrus can wrap their entry with [NewLogrus].
//
// Every compiler run logs with an "invocation-id" value.
package log

import (
	"github.com/sirupsen/logrus"

	"github.com/slok/bopbridge/internal/log"
	internallogrus "github.com/slok/bopbridge/internal/log/logrus"
)

// Logger is the logger accepted by [lib.Config].
type Logger = log.Logger

// Kv are structured key-value pairs attached to a logger.
type Kv = log.Kv

// Noop discards everything.
var Noop Logger = log.Noop

// NewLogrus returns a Logger backed by a logrus entry.
func NewLogrus(e *logrus.Entry) Logger {
	if e == nil {
		return Noop
	}
	return internallogrus.NewLogrus(e)
}
