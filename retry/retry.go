package retry

import (
	"time"

	"github.com/cockroachdb/errors"
)

const (
	DefaultTimeout  = 15 * time.Second
	DefaultInterval = 200 * time.Millisecond
)

type Settings struct {
	// Timeout is how long to keep retrying, measured from the first failure.
	Timeout time.Duration
	// Interval is the pause between attempts.
	Interval time.Duration
}

func (s Settings) Verify() error {
	if s.Timeout < 0 {
		return errors.Newf("timeout must be >= 0, got %s", s.Timeout)
	}
	if s.Interval <= 0 {
		return errors.Newf("interval must be > 0, got %s", s.Interval)
	}
	return nil
}

func DefaultSettings() Settings {
	return Settings{
		Timeout:  DefaultTimeout,
		Interval: DefaultInterval,
	}
}

// Retry tracks the deadline of a single retried call. The clock starts at
// the first failure, not when the call is made.
type Retry struct {
	Iteration int
	StartTime time.Time

	settings Settings
}

func NewRetry(settings Settings) (*Retry, error) {
	if err := settings.Verify(); err != nil {
		return nil, err
	}
	return &Retry{
		Iteration: 1,
		settings:  settings,
	}, nil
}

// Fail records a failed attempt observed at t and returns whether another
// attempt should be made.
func (rm *Retry) Fail(t time.Time) bool {
	if rm.StartTime.IsZero() {
		rm.StartTime = t
	}
	if rm.Elapsed(t) >= rm.settings.Timeout {
		return false
	}
	rm.Iteration++
	return true
}

// Elapsed is the time spent since the first failure.
func (rm *Retry) Elapsed(t time.Time) time.Duration {
	if rm.StartTime.IsZero() {
		return 0
	}
	return t.Sub(rm.StartTime)
}
