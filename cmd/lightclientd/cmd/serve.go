package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/client"
	"github.com/chainlynx/lightclient/config"
	"github.com/chainlynx/lightclient/metrics"
)

// serveCmd runs lightclientd as a long-lived process: a control HTTP
// server accepting header submissions and answering tip/proof queries,
// and a separate Prometheus /metrics listener, grounded on the
// teacher's flokicoind.go pattern of a plain net/http.ListenAndServe
// goroutine per auxiliary listener rather than a dedicated RPC
// framework.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run lightclientd's control and metrics HTTP listeners",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		c, closeFn, err := buildClient(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler()}
		controlSrv := &http.Server{Addr: cfg.ListenAddr, Handler: newControlMux(c)}

		errCh := make(chan error, 2)
		go func() {
			logger.Infof("metrics listening on %s", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		go func() {
			logger.Infof("control server listening on %s", cfg.ListenAddr)
			if err := controlSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			logger.Infof("received %s, shutting down", sig)
		case err := <-errCh:
			logger.Errorf("listener error: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(ctx)
		_ = controlSrv.Shutdown(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newControlMux builds the relayer-facing control surface: POST
// /submit accepts a JSON batch of Bitcoin-family headers in the submit
// subcommand's non-Zcash input format (it does not accept Zcash
// headers), GET /tip reports the mainchain head, and POST /verify
// checks an SPV inclusion proof. This is a local control
// surface for a trusted relayer process, not a public-facing API — it
// carries no authentication, matching the scope note in DESIGN.md that
// this client has no P2P listener of its own.
func newControlMux(c *client.Client) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tip", func(w http.ResponseWriter, r *http.Request) {
		tip, err := c.GetLastBlockHeader()
		if err != nil {
			writeJSONError(w, err)
			return
		}
		writeJSON(w, tipResponse{
			Height:        tip.BlockHeight,
			Hash:          tip.BlockHash.String(),
			ChainWork:     tip.ChainWork.String(),
			MainchainSize: mustMainchainSize(c),
		})
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var batch []headerJSON
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		submissions := make([]client.BlockSubmission, 0, len(batch))
		for _, entry := range batch {
			h, err := entry.toHeader()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			submissions = append(submissions, client.BlockSubmission{Header: h})
		}
		if err := c.SubmitBlocks(submissions); err != nil {
			writeJSONError(w, err)
			return
		}
		writeJSON(w, submitResponse{Accepted: len(submissions)})
	})
	mux.HandleFunc("/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		args, err := req.toProofArgs()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ok, err := c.VerifyTransactionInclusion(args)
		if err != nil {
			writeJSONError(w, err)
			return
		}
		writeJSON(w, verifyResponse{Included: ok})
	})
	return mux
}

func mustMainchainSize(c *client.Client) uint64 {
	size, err := c.GetMainchainSize()
	if err != nil {
		return 0
	}
	return size
}

type tipResponse struct {
	Height        uint64 `json:"height"`
	Hash          string `json:"hash"`
	ChainWork     string `json:"chain_work"`
	MainchainSize uint64 `json:"mainchain_size"`
}

type submitResponse struct {
	Accepted int `json:"accepted"`
}

type verifyRequest struct {
	TxID          string   `json:"tx_id"`
	TxBlockHash   string   `json:"tx_block_hash"`
	TxIndex       uint64   `json:"tx_index"`
	MerkleProof   []string `json:"merkle_proof"`
	Confirmations uint64   `json:"confirmations"`
}

func (r verifyRequest) toProofArgs() (client.ProofArgs, error) {
	txID, err := chainhash.NewHashFromStr(r.TxID)
	if err != nil {
		return client.ProofArgs{}, err
	}
	blockHash, err := chainhash.NewHashFromStr(r.TxBlockHash)
	if err != nil {
		return client.ProofArgs{}, err
	}
	proof := make([]chainhash.Hash, 0, len(r.MerkleProof))
	for _, s := range r.MerkleProof {
		h, err := chainhash.NewHashFromStr(s)
		if err != nil {
			return client.ProofArgs{}, err
		}
		proof = append(proof, *h)
	}
	return client.ProofArgs{
		TxID:          *txID,
		TxBlockHash:   *blockHash,
		TxIndex:       r.TxIndex,
		MerkleProof:   proof,
		Confirmations: r.Confirmations,
	}, nil
}

type verifyResponse struct {
	Included bool `json:"included"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
