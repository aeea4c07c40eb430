package retry

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var attemptsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stepcheck",
	Subsystem: "retry",
	Name:      "attempts",
	Help:      "Outcome of each attempt made by retried operations.",
}, []string{"outcome"})

func init() {
	// Initialise each metric by default.
	for _, s := range []string{"success", "transient", "permanent", "timeout"} {
		attemptsMetric.WithLabelValues(s)
	}
}

// Clock is the source of time used between attempts.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d, returning early with an error if ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

func (wallClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type DoOpt func(*doOpts)

type doOpts struct {
	logger zerolog.Logger
	clock  Clock
}

func WithLogger(logger zerolog.Logger) DoOpt {
	return func(o *doOpts) {
		o.logger = logger
	}
}

func WithClock(c Clock) DoOpt {
	return func(o *doOpts) {
		o.clock = c
	}
}

// Do runs op until it succeeds, fails with a permanent error, or keeps
// failing with transient errors for longer than settings.Timeout. On timeout
// the last transient error is returned as is.
func Do(ctx context.Context, settings Settings, op func() error, opts ...DoOpt) error {
	_, err := DoValue(ctx, settings, func() (struct{}, error) {
		return struct{}{}, op()
	}, opts...)
	return err
}

// DoValue is Do for operations producing a value.
func DoValue[T any](
	ctx context.Context, settings Settings, op func() (T, error), opts ...DoOpt,
) (T, error) {
	o := doOpts{
		logger: zerolog.Nop(),
		clock:  wallClock{},
	}
	for _, applyOpt := range opts {
		applyOpt(&o)
	}

	var zero T
	r, err := NewRetry(settings)
	if err != nil {
		return zero, err
	}
	for {
		ret, err := op()
		if err == nil {
			attemptsMetric.WithLabelValues("success").Inc()
			return ret, nil
		}
		if !IsTransient(err) {
			attemptsMetric.WithLabelValues("permanent").Inc()
			return zero, err
		}
		now := o.clock.Now()
		if !r.Fail(now) {
			attemptsMetric.WithLabelValues("timeout").Inc()
			o.logger.Debug().
				Int("attempts", r.Iteration).
				Dur("elapsed", r.Elapsed(now)).
				Err(err).
				Msgf("giving up after timeout")
			return zero, err
		}
		attemptsMetric.WithLabelValues("transient").Inc()
		o.logger.Trace().
			Int("attempt", r.Iteration).
			Err(err).
			Msgf("transient failure, retrying")
		if sleepErr := o.clock.Sleep(ctx, settings.Interval); sleepErr != nil {
			return zero, errors.WithSecondaryError(sleepErr, err)
		}
	}
}
