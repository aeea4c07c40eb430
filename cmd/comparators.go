package cmd

import (
	"fmt"

	"github.com/cockroachdb/stepcheck/tablematch"
	"github.com/spf13/cobra"
)

var comparatorsCmd = &cobra.Command{
	Use:   "comparators",
	Short: "List the comparators usable as column suffixes.",
	Long:  `Comparators lists the names usable as "<column>__<comparator>" in expected rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range tablematch.DefaultRegistry().Names() {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(comparatorsCmd)
}
