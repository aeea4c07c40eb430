package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/stepcheck/cmd/match"
	"github.com/cockroachdb/stepcheck/cmd/waitfile"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stepcheck",
	Short: "Checks used by browser-driven behaviour tests",
	Long:  `stepcheck matches expected rows against tables and waits for downloaded files, retrying while pages catch up.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(match.Command())
	rootCmd.AddCommand(waitfile.Command())
}
