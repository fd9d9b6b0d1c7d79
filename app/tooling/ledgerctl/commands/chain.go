package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		var info map[string]any
		if err := get(fmt.Sprintf("%s/v1/chain", viper.GetString("node-url")), &info); err != nil {
			return err
		}

		return printJSON(info)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print chain and pool statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		var stats map[string]any
		if err := get(fmt.Sprintf("%s/v1/stats", viper.GetString("node-url")), &stats); err != nil {
			return err
		}

		return printJSON(stats)
	},
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Signal the node to mine the pending pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result map[string]any
		if err := get(fmt.Sprintf("%s/v1/mining/signal", viper.GetString("node-url")), &result); err != nil {
			return err
		}

		return printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(chainCmd, statsCmd, mineCmd)
}
