// Package config loads lightclientd's runtime configuration, grounded on
// zcash/lightwalletd's cmd/root.go: spf13/viper binds command-line flags
// and environment variables, while the on-disk config file itself is
// decoded with BurntSushi/toml (lightwalletd ships a TOML sample config
// for zcash.conf-adjacent settings) and layered in as viper defaults
// ahead of the flag/env overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chainlynx/lightclient/chainparams"
)

// Config is the resolved set of options lightclientd runs with.
type Config struct {
	// Chain selects which header family this instance tracks. One
	// lightclientd process tracks exactly one chain kind, matching the
	// one-ChainStore-per-kind shape of the client package.
	Chain string `toml:"chain"`
	// Network is "mainnet" or "testnet".
	Network string `toml:"network"`

	// DataDir is where the bbolt database file lives. Empty means the
	// in-memory store (store.MemStore) is used instead.
	DataDir string `toml:"data_dir"`

	// GCThreshold overrides store.DefaultGCThreshold when non-zero.
	GCThreshold uint64 `toml:"gc_threshold"`

	// ListenAddr is the control HTTP address lightclientd's "serve"
	// subcommand binds for submit/query requests.
	ListenAddr string `toml:"listen_addr"`
	// MetricsAddr is where the Prometheus /metrics handler is served.
	MetricsAddr string `toml:"metrics_addr"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`
}

// ChainKind resolves c.Chain to a chainparams.ChainKind.
func (c Config) ChainKind() (chainparams.ChainKind, error) {
	switch strings.ToLower(c.Chain) {
	case "bitcoin":
		return chainparams.Bitcoin, nil
	case "litecoin":
		return chainparams.Litecoin, nil
	case "dogecoin":
		return chainparams.Dogecoin, nil
	case "zcash":
		return chainparams.Zcash, nil
	default:
		return 0, fmt.Errorf("config: unknown chain %q", c.Chain)
	}
}

// NetworkKind resolves c.Network to a chainparams.Network.
func (c Config) NetworkKind() (chainparams.Network, error) {
	switch strings.ToLower(c.Network) {
	case "", "mainnet":
		return chainparams.Mainnet, nil
	case "testnet":
		return chainparams.Testnet, nil
	default:
		return 0, fmt.Errorf("config: unknown network %q", c.Network)
	}
}

// BindFlags registers lightclientd's persistent flags on cmd and binds
// each to its viper key, the same BindPFlag/SetDefault pairing
// lightwalletd's root.go uses for every option.
func BindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("chain", "bitcoin", "chain family to track: bitcoin, litecoin, dogecoin, zcash")
	cmd.PersistentFlags().String("network", "mainnet", "network: mainnet or testnet")
	cmd.PersistentFlags().String("data-dir", "", "bbolt database directory (empty uses an in-memory store)")
	cmd.PersistentFlags().Uint64("gc-threshold", 0, "mainchain retention window in blocks (0 uses the store default)")
	cmd.PersistentFlags().String("listen-addr", "127.0.0.1:8332", "address the control HTTP server listens on")
	cmd.PersistentFlags().String("metrics-addr", "127.0.0.1:9090", "address the Prometheus /metrics handler listens on")
	cmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	for _, key := range []string{"chain", "network", "data-dir", "gc-threshold", "listen-addr", "metrics-addr", "log-level"} {
		_ = viper.BindPFlag(key, cmd.PersistentFlags().Lookup(key))
	}
}

// LoadFile decodes a lightclientd TOML config file at path with
// BurntSushi/toml and feeds each present field into viper as a default,
// so flags and environment variables (bound in BindFlags/InitEnv) still
// take precedence per viper's usual layering.
func LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	var onDisk Config
	if _, err := toml.DecodeFile(path, &onDisk); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	if onDisk.Chain != "" {
		viper.SetDefault("chain", onDisk.Chain)
	}
	if onDisk.Network != "" {
		viper.SetDefault("network", onDisk.Network)
	}
	if onDisk.DataDir != "" {
		viper.SetDefault("data-dir", onDisk.DataDir)
	}
	if onDisk.GCThreshold != 0 {
		viper.SetDefault("gc-threshold", onDisk.GCThreshold)
	}
	if onDisk.ListenAddr != "" {
		viper.SetDefault("listen-addr", onDisk.ListenAddr)
	}
	if onDisk.MetricsAddr != "" {
		viper.SetDefault("metrics-addr", onDisk.MetricsAddr)
	}
	if onDisk.LogLevel != "" {
		viper.SetDefault("log-level", onDisk.LogLevel)
	}
	return nil
}

// InitEnv wires environment-variable overrides the way lightwalletd's
// initConfig does: "-" replaced by "_" so --data-dir maps to
// LIGHTCLIENTD_DATA_DIR.
func InitEnv() {
	viper.SetEnvPrefix("lightclientd")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("chain", "bitcoin")
	viper.SetDefault("network", "mainnet")
	viper.SetDefault("listen-addr", "127.0.0.1:8332")
	viper.SetDefault("metrics-addr", "127.0.0.1:9090")
	viper.SetDefault("log-level", "info")
}

// Load reads the bound viper values into a Config.
func Load() Config {
	return Config{
		Chain:       viper.GetString("chain"),
		Network:     viper.GetString("network"),
		DataDir:     viper.GetString("data-dir"),
		GCThreshold: viper.GetUint64("gc-threshold"),
		ListenAddr:  viper.GetString("listen-addr"),
		MetricsAddr: viper.GetString("metrics-addr"),
		LogLevel:    viper.GetString("log-level"),
	}
}
