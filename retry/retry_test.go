package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifySettings(t *testing.T) {
	for _, tc := range []struct {
		desc          string
		settings      Settings
		expectedError string
	}{
		{
			desc:     "default settings",
			settings: DefaultSettings(),
		},
		{
			desc:          "interval unset",
			settings:      Settings{Timeout: time.Second},
			expectedError: "interval must be > 0, got 0s",
		},
		{
			desc:          "negative timeout",
			settings:      Settings{Timeout: -time.Second, Interval: time.Millisecond},
			expectedError: "timeout must be >= 0, got -1s",
		},
		{
			desc:     "zero timeout",
			settings: Settings{Interval: time.Millisecond},
		},
		{
			desc:     "everything valid",
			settings: Settings{Timeout: time.Minute, Interval: time.Second},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.settings.Verify()
			if tc.expectedError != "" {
				require.Error(t, err)
				require.EqualError(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.Equal(t, 15*time.Second, s.Timeout)
	require.Equal(t, 200*time.Millisecond, s.Interval)
}

func TestRetry(t *testing.T) {
	startTime := time.Date(2020, 01, 01, 0, 0, 0, 0, time.UTC)

	for _, tc := range []struct {
		desc             string
		settings         Settings
		failures         []time.Duration
		expectedContinue []bool
	}{
		{
			desc:             "within timeout",
			settings:         Settings{Timeout: 10 * time.Second, Interval: time.Second},
			failures:         []time.Duration{0, time.Second, 9 * time.Second},
			expectedContinue: []bool{true, true, true},
		},
		{
			desc:             "timeout reached exactly",
			settings:         Settings{Timeout: 10 * time.Second, Interval: time.Second},
			failures:         []time.Duration{0, 5 * time.Second, 10 * time.Second},
			expectedContinue: []bool{true, true, false},
		},
		{
			desc:             "clock starts at first failure",
			settings:         Settings{Timeout: 10 * time.Second, Interval: time.Second},
			failures:         []time.Duration{time.Hour, time.Hour + 9*time.Second},
			expectedContinue: []bool{true, true},
		},
		{
			desc:             "zero timeout",
			settings:         Settings{Interval: time.Second},
			failures:         []time.Duration{0},
			expectedContinue: []bool{false},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			r, err := NewRetry(tc.settings)
			require.NoError(t, err)
			require.True(t, r.StartTime.IsZero())
			for i, offset := range tc.failures {
				require.Equal(t, i+1, r.Iteration)
				require.Equal(t, tc.expectedContinue[i], r.Fail(startTime.Add(offset)))
				require.Equal(t, startTime.Add(tc.failures[0]), r.StartTime)
			}
		})
	}
}

func TestNewRetryInvalidSettings(t *testing.T) {
	_, err := NewRetry(Settings{})
	require.EqualError(t, err, "interval must be > 0, got 0s")
}
