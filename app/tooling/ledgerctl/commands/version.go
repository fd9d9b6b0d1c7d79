package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set using build flags in the makefile.
var Version = "develop"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ledgerctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
