package match

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stepcheck/cmd/internal/cmdutil"
	"github.com/cockroachdb/stepcheck/fixture"
	"github.com/cockroachdb/stepcheck/retry"
	"github.com/cockroachdb/stepcheck/tablematch"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var (
		fixturePath string
		inOrder     bool
		settings    = retry.Settings{Interval: retry.DefaultInterval}
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Check that a table in a fixture contains the expected rows.",
		Long: `Match searches the tables of a YAML fixture for one containing every expected row.
Column names may carry a comparator suffix, e.g. name__contains.
With --timeout set, the fixture is re-read until it matches or the timeout elapses.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			cmdutil.RunMetricsServer(logger)

			m := tablematch.NewMatcher(nil)
			res, err := retry.DoValue(ctx, settings, func() (tablematch.Result, error) {
				f, err := fixture.Load(fixturePath)
				if err != nil {
					return tablematch.Result{}, err
				}
				if inOrder {
					return m.FindTableContainingRowsInOrder(f.Tables, f.Expected)
				}
				return m.FindTableContainingRows(f.Tables, f.Expected)
			}, retry.WithLogger(logger))
			if err != nil {
				tablematch.LogReporter{Logger: logger}.Report(err)
				return errors.Wrapf(err, "error matching %s", fixturePath)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "matched %s at rows %v\n", res.Table.Name, res.RowIndexes)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(
		&fixturePath,
		"fixture",
		"",
		"path to the YAML fixture holding expected rows and tables",
	)
	cmd.PersistentFlags().BoolVar(
		&inOrder,
		"in-order",
		false,
		"whether the expected rows must appear in the given order",
	)
	if err := cmd.MarkPersistentFlagRequired("fixture"); err != nil {
		panic(err)
	}

	cmdutil.RegisterRetryFlags(cmd, &settings)
	cmdutil.RegisterLoggerFlags(cmd)
	cmdutil.RegisterMetricsFlags(cmd)
	return cmd
}
