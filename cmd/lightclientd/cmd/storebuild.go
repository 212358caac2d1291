package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/client"
	"github.com/chainlynx/lightclient/config"
	"github.com/chainlynx/lightclient/store"
	"github.com/chainlynx/lightclient/store/boltstore"
)

// buildClient constructs the Client for the current configuration,
// opening a durable bbolt-backed store when a data directory is
// configured or falling back to an in-memory store otherwise (useful
// for tests and one-shot inspection of a batch of headers).
func buildClient(cfg config.Config) (*client.Client, func() error, error) {
	kind, err := cfg.ChainKind()
	if err != nil {
		return nil, nil, err
	}
	network, err := cfg.NetworkKind()
	if err != nil {
		return nil, nil, err
	}

	var kv store.KVStore
	closeFn := func() error { return nil }
	if cfg.DataDir != "" {
		path := filepath.Join(cfg.DataDir, fmt.Sprintf("%s-%s.db", kind, networkSuffix(network)))
		bolt, err := boltstore.Open(path)
		if err != nil {
			return nil, nil, err
		}
		kv = bolt
		closeFn = bolt.Close
	} else {
		kv = store.NewMemStore()
	}

	c := client.New(kind, network, kv, cfg.GCThreshold, 0)
	c.SetLogger(logger)
	return c, closeFn, nil
}

func networkSuffix(n chainparams.Network) string {
	if n == chainparams.Testnet {
		return "testnet"
	}
	return "mainnet"
}
