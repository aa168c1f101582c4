package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xmhha/change-monitor/pkg/display"
	"github.com/0xmhha/change-monitor/pkg/filter"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the active filter rules",
	Long: `rules prints the ordered filter rules applied to every changed
path. The first matching rule drops the path; exceptions within a rule
are checked before its pattern.`,
	RunE: runRules,
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check PATH...",
	Short: "Check whether paths survive the filter rules",
	Long: `check applies the filter rules to each path and prints the
verdict. Exits with status 1 if any path would be filtered out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRulesCheck,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesFormat, "format", "table", "output format (table, json, simple)")
	rulesCmd.AddCommand(rulesCheckCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRules(_ *cobra.Command, _ []string) error {
	format, err := display.ParseFormat(rulesFormat)
	if err != nil {
		return err
	}

	formatter := display.New(display.Config{Format: format})
	return formatter.FormatRules(os.Stdout, filter.DefaultRules())
}

func runRulesCheck(_ *cobra.Command, args []string) error {
	if filtered := checkPaths(os.Stdout, filter.New(), args); filtered > 0 {
		return errSilent
	}
	return nil
}

// checkPaths prints a verdict per path and returns how many would be
// filtered out.
func checkPaths(w io.Writer, f *filter.Filter, paths []string) int {
	filtered := 0
	for _, path := range paths {
		if f.ShouldWatch(path) {
			fmt.Fprintf(w, "keep      %s\n", path)
		} else {
			fmt.Fprintf(w, "filtered  %s\n", path)
			filtered++
		}
	}
	return filtered
}
