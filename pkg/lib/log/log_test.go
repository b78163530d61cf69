package log_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	liblog "github.com/slok/bopbridge/pkg/lib/log"
)

func TestNewLogrus(t *testing.T) {
	tests := map[string]struct {
		entry  func(out *bytes.Buffer) *logrus.Entry
		expOut []string
	}{
		"A nil entry should return the noop logger.": {
			entry:  func(out *bytes.Buffer) *logrus.Entry { return nil },
			expOut: nil,
		},

		"Values should be logged with the message.": {
			entry: func(out *bytes.Buffer) *logrus.Entry {
				l := logrus.New()
				l.SetOutput(out)
				l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
				return logrus.NewEntry(l)
			},
			expOut: []string{`msg="compiling a.bop"`, "invocation-id=01ABC"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			var out bytes.Buffer
			logger := liblog.NewLogrus(test.entry(&out))
			logger.WithValues(liblog.Kv{"invocation-id": "01ABC"}).Infof("compiling %s", "a.bop")

			if test.expOut == nil {
				assert.Empty(out.String())
			}
			for _, exp := range test.expOut {
				assert.Contains(out.String(), exp)
			}
		})
	}
}
