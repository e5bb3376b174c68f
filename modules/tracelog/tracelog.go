// Package tracelog provides the structured logger the CLI hands to the
// rewriter, and a lightweight step-timing helper.
package tracelog

import (
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.FieldLogger writing text-formatted entries at level
// to stderr, the same default shape every long-running command in this
// repository starts from.
func New(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// Tracker accumulates named step durations for one logical operation (one
// filtering pass, one cache compaction) and emits them as a single debug
// log line, rather than one log line per step.
type Tracker struct {
	log    logrus.FieldLogger
	start  time.Time
	last   time.Time
	fields logrus.Fields
}

// NewTracker starts a tracker for op, logged under log.
func NewTracker(log logrus.FieldLogger, op string) *Tracker {
	now := time.Now()
	return &Tracker{log: log, start: now, last: now, fields: logrus.Fields{"op": op}}
}

// StepNext records the duration since the previous step (or start) under
// name and resets the clock.
func (t *Tracker) StepNext(name string) {
	now := time.Now()
	t.fields[name+"_ms"] = now.Sub(t.last).Milliseconds()
	t.last = now
}

// Done logs the accumulated step durations plus the total elapsed time.
func (t *Tracker) Done() {
	t.fields["total_ms"] = time.Since(t.start).Milliseconds()
	t.log.WithFields(t.fields).Debug("tracelog: step timings")
}
