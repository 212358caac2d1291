package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/chainlynx/lightclient/chainparams"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadFileAppliesOnDiskDefaults(t *testing.T) {
	resetViper(t)
	InitEnv()

	dir := t.TempDir()
	path := filepath.Join(dir, "lightclientd.toml")
	contents := "chain = \"dogecoin\"\nnetwork = \"testnet\"\ngc_threshold = 5000\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	require.NoError(t, LoadFile(path))

	cfg := Load()
	require.Equal(t, "dogecoin", cfg.Chain)
	require.Equal(t, "testnet", cfg.Network)
	require.Equal(t, uint64(5000), cfg.GCThreshold)

	kind, err := cfg.ChainKind()
	require.NoError(t, err)
	require.Equal(t, chainparams.Dogecoin, kind)

	network, err := cfg.NetworkKind()
	require.NoError(t, err)
	require.Equal(t, chainparams.Testnet, network)
}

func TestLoadFileMissingPathIsNotAnError(t *testing.T) {
	resetViper(t)
	InitEnv()
	require.NoError(t, LoadFile(filepath.Join(t.TempDir(), "missing.toml")))
	require.Equal(t, "bitcoin", Load().Chain)
}

func TestChainKindRejectsUnknownChain(t *testing.T) {
	cfg := Config{Chain: "faketoshicoin"}
	_, err := cfg.ChainKind()
	require.Error(t, err)
}
