package cmdutil

import (
	"github.com/cockroachdb/stepcheck/retry"
	"github.com/spf13/cobra"
)

// RegisterRetryFlags binds --timeout and --interval to s, using the values
// already in s as defaults.
func RegisterRetryFlags(cmd *cobra.Command, s *retry.Settings) {
	cmd.PersistentFlags().DurationVar(
		&s.Timeout,
		"timeout",
		s.Timeout,
		"how long to keep retrying after the first failure",
	)
	cmd.PersistentFlags().DurationVar(
		&s.Interval,
		"interval",
		s.Interval,
		"pause between attempts",
	)
}
