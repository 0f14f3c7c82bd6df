package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at release time via -ldflags.
var version = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of taskdeck",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskdeck version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
