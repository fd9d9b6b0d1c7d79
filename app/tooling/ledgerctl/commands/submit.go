package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/watermarkd/watermarkd/foundation/ledger"
)

var (
	sender      string
	receiver    string
	amount      float64
	imageHash   string
	messageHash string
	fileSize    int64
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a transaction to the pending pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := struct {
			Sender   string           `json:"sender"`
			Receiver string           `json:"receiver"`
			Amount   float64          `json:"amount"`
			Metadata *ledger.Metadata `json:"metadata,omitempty"`
		}{
			Sender:   sender,
			Receiver: receiver,
			Amount:   amount,
		}

		// Any watermark detail turns the submission into a watermark
		// transaction.
		if imageHash != "" || messageHash != "" {
			payload.Metadata = &ledger.Metadata{
				ImageHash:   imageHash,
				MessageHash: messageHash,
				FileSize:    fileSize,
			}
		}

		url := fmt.Sprintf("%s/v1/tx/submit", viper.GetString("node-url"))
		resp, err := client().R().SetBody(payload).Post(url)
		if err != nil {
			return errors.Wrapf(err, "calling %s", url)
		}
		if resp.StatusCode() != 201 {
			return errors.Errorf("%s responded %d: %s", url, resp.StatusCode(), resp.Body())
		}

		var result map[string]any
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return errors.Wrap(err, "decoding response")
		}

		return printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender identifier.")
	submitCmd.Flags().StringVarP(&receiver, "receiver", "r", "", "Receiver identifier.")
	submitCmd.Flags().Float64VarP(&amount, "amount", "a", 1, "Transaction amount.")
	submitCmd.Flags().StringVar(&imageHash, "image-hash", "", "Watermarked image hash.")
	submitCmd.Flags().StringVar(&messageHash, "message-hash", "", "Embedded message hash.")
	submitCmd.Flags().Int64Var(&fileSize, "file-size", 0, "Watermarked image size in bytes.")
	submitCmd.MarkFlagRequired("sender")
	submitCmd.MarkFlagRequired("receiver")
}
