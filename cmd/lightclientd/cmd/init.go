package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/client"
	"github.com/chainlynx/lightclient/config"
)

var initGenesisPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "seed the chain store with a genesis header",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		kind, err := cfg.ChainKind()
		if err != nil {
			return err
		}

		g, err := readGenesisFile(initGenesisPath)
		if err != nil {
			return err
		}
		blockHash, err := g.blockHash()
		if err != nil {
			return err
		}

		c, closeFn, err := buildClient(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		initArgs := client.InitArgs{
			GenesisBlockHash:   blockHash,
			GenesisBlockHeight: g.BlockHeight,
			GenesisChainWork:   g.genesisChainWork(),
		}

		if kind == chainparams.Zcash {
			if g.ZcashHeader == nil {
				return fmt.Errorf("init: zcash_header is required for chain=zcash")
			}
			zh, err := g.ZcashHeader.toHeader()
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			initArgs.GenesisZcash = zh
		} else {
			if g.Header == nil {
				return fmt.Errorf("init: header is required for chain=%s", kind)
			}
			h, err := g.Header.toHeader()
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			initArgs.GenesisBlock = h
		}

		if err := c.Init(initArgs); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		cmd.Printf("initialized %s store at height %d, hash %s\n", kind, g.BlockHeight, blockHash)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initGenesisPath, "genesis", "", "path to a genesis header JSON file")
	_ = initCmd.MarkFlagRequired("genesis")
	rootCmd.AddCommand(initCmd)
}
