// Package cmd implements lightclientd's subcommands, grounded on
// zcash-lightwalletd's cmd/root.go for the cobra/viper wiring shape:
// persistent flags bound once on the root command, a config file
// optionally layered underneath them, and a package-level logger
// subcommands share.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/chainlynx/lightclient/config"
)

var cfgFile string
var logger = zap.NewNop().Sugar()

var rootCmd = &cobra.Command{
	Use:   "lightclientd",
	Short: "lightclientd tracks header-only chain state for Bitcoin-family and Zcash networks",
	Long: `lightclientd is a header-only light client: it accepts relayed
block headers, verifies their proof-of-work and retarget rules, tracks
the heaviest chain including reorgs, and answers SPV Merkle-inclusion
proof queries, without ever downloading full blocks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.InitEnv()
		if err := config.LoadFile(cfgFile); err != nil {
			return err
		}
		return initLogger()
	},
	SilenceUsage: true,
}

func initLogger() error {
	level := viper.GetString("log-level")
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zapLevel
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = l.Sugar()
	return nil
}

// Execute runs the root command, returning the first error any
// subcommand produces.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a lightclientd TOML config file")
	config.BindFlags(rootCmd)
}

