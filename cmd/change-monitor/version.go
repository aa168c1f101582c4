package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("change-monitor version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
