// Command lightclientd runs the header-only light client as a
// standalone process: seed a store from a genesis header, submit
// batches of subsequent headers, inspect the mainchain tip, garbage
// collect old history, and serve Prometheus metrics.
package main

import (
	"fmt"
	"os"

	"github.com/chainlynx/lightclient/cmd/lightclientd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
