package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set by ldflags during release builds.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cardsage version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
