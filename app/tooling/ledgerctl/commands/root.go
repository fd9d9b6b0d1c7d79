// Package commands contains the ledgerctl command set.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operate a watermark ledger node",
	Long:  `ledgerctl talks to the public and private HTTP APIs of a running watermark ledger node.`,
}

func init() {
	rootCmd.PersistentFlags().String("node-url", "http://localhost:8080", "Base URL of the node public API.")
	rootCmd.PersistentFlags().String("private-url", "http://localhost:9080", "Base URL of the node private API.")

	viper.BindPFlag("node-url", rootCmd.PersistentFlags().Lookup("node-url"))
	viper.BindPFlag("private-url", rootCmd.PersistentFlags().Lookup("private-url"))
	viper.SetEnvPrefix("ledgerctl")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// client constructs the HTTP client used by every command.
func client() *resty.Client {
	return resty.New()
}

// get fetches the specified node endpoint and decodes the JSON response
// into out.
func get(url string, out any) error {
	resp, err := client().R().Get(url)
	if err != nil {
		return errors.Wrapf(err, "calling %s", url)
	}
	if resp.StatusCode() != 200 {
		return errors.Errorf("%s responded %d: %s", url, resp.StatusCode(), resp.Body())
	}

	if out == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(resp.Body(), out), "decoding response")
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding output")
	}

	fmt.Println(string(data))
	return nil
}
