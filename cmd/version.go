package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the racebell version",
	Long:  `Print the version this racebell binary was built from.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("racebell %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
