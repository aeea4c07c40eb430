package waitfile

import (
	"context"
	"fmt"

	"github.com/cockroachdb/stepcheck/cmd/internal/cmdutil"
	"github.com/cockroachdb/stepcheck/download"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	cfg := download.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "wait-file <filename>",
		Short: "Wait for a file to be downloaded.",
		Long:  `Wait-file waits for a file to appear in the download directory and prints its path.`,
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			cmdutil.RunMetricsServer(logger)

			path, err := download.WaitForFile(ctx, cfg, args[0], logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(
		&cfg.Dir,
		"dir",
		"",
		"directory the browser downloads files into",
	)
	if err := cmd.MarkPersistentFlagRequired("dir"); err != nil {
		panic(err)
	}

	cmdutil.RegisterRetryFlags(cmd, &cfg.Retry)
	cmdutil.RegisterLoggerFlags(cmd)
	cmdutil.RegisterMetricsFlags(cmd)
	return cmd
}
