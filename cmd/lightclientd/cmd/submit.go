package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/client"
	"github.com/chainlynx/lightclient/config"
)

var submitHeadersPath string

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "submit a batch of headers, left to right, stopping at the first failure",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		kind, err := cfg.ChainKind()
		if err != nil {
			return err
		}

		c, closeFn, err := buildClient(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		var submissions []client.BlockSubmission
		if kind == chainparams.Zcash {
			batch, err := readZcashHeaderBatchFile(submitHeadersPath)
			if err != nil {
				return err
			}
			for i, entry := range batch {
				zh, err := entry.toHeader()
				if err != nil {
					return fmt.Errorf("submit: header %d: %w", i, err)
				}
				submissions = append(submissions, client.BlockSubmission{
					ZcashHeader:     zh,
					SolutionIndices: entry.SolutionIndices,
				})
			}
		} else {
			batch, err := readHeaderBatchFile(submitHeadersPath)
			if err != nil {
				return err
			}
			for i, entry := range batch {
				h, err := entry.toHeader()
				if err != nil {
					return fmt.Errorf("submit: header %d: %w", i, err)
				}
				submissions = append(submissions, client.BlockSubmission{Header: h})
			}
		}

		if err := c.SubmitBlocks(submissions); err != nil {
			return err
		}
		cmd.Printf("submitted %d headers\n", len(submissions))
		return nil
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitHeadersPath, "headers", "", "path to a JSON array of headers to submit")
	_ = submitCmd.MarkFlagRequired("headers")
	rootCmd.AddCommand(submitCmd)
}
