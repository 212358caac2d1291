package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chainlynx/lightclient/config"
)

var gcBatchSize uint64

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "prune mainchain history outside the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		c, closeFn, err := buildClient(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		pruned, err := c.RunMainchainGC(gcBatchSize)
		if err != nil {
			return err
		}
		cmd.Printf("pruned %d headers\n", pruned)
		return nil
	},
}

func init() {
	gcCmd.Flags().Uint64Var(&gcBatchSize, "batch-size", 1000, "maximum number of mainchain entries to prune per call")
	rootCmd.AddCommand(gcCmd)
}
