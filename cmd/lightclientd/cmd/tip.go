package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chainlynx/lightclient/config"
)

var tipCmd = &cobra.Command{
	Use:   "tip",
	Short: "print the current mainchain tip",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		c, closeFn, err := buildClient(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		tip, err := c.GetLastBlockHeader()
		if err != nil {
			return err
		}
		size, err := c.GetMainchainSize()
		if err != nil {
			return err
		}
		cmd.Printf("height=%d hash=%s chainwork=%s mainchain_size=%d\n",
			tip.BlockHeight, tip.BlockHash, tip.ChainWork, size)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tipCmd)
}
