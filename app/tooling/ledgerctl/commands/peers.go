package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Manage the node's known peers",
}

var peersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known peers",
	RunE: func(cmd *cobra.Command, args []string) error {
		var peers map[string]any
		if err := get(fmt.Sprintf("%s/v1/node/peers", viper.GetString("private-url")), &peers); err != nil {
			return err
		}

		return printJSON(peers)
	},
}

var peersAddCmd = &cobra.Command{
	Use:   "add <address>",
	Short: "Register a peer address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := struct {
			Address string `json:"address"`
		}{
			Address: args[0],
		}

		url := fmt.Sprintf("%s/v1/node/peers", viper.GetString("private-url"))
		resp, err := client().R().SetBody(payload).Post(url)
		if err != nil {
			return errors.Wrapf(err, "calling %s", url)
		}
		if resp.StatusCode() != 200 {
			return errors.Errorf("%s responded %d: %s", url, resp.StatusCode(), resp.Body())
		}

		var result map[string]any
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return errors.Wrap(err, "decoding response")
		}

		return printJSON(result)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run a consensus resolution pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result map[string]any
		if err := get(fmt.Sprintf("%s/v1/node/resolve", viper.GetString("private-url")), &result); err != nil {
			return err
		}

		return printJSON(result)
	},
}

func init() {
	peersCmd.AddCommand(peersListCmd, peersAddCmd)
	rootCmd.AddCommand(peersCmd, resolveCmd)
}
