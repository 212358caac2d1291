// Package metrics exposes the chain store's operational counters and
// gauges over Prometheus, grounded on p2pool-go's flat package-level
// collector style.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TipHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lightclient",
		Name:      "tip_height",
		Help:      "Block height of the current mainchain tip.",
	})

	MainchainSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lightclient",
		Name:      "mainchain_size",
		Help:      "Number of headers currently retained on the mainchain.",
	})

	// ForkHeaders is registered, but no code in this module sets it, so
	// it always reads zero.
	ForkHeaders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lightclient",
		Name:      "fork_headers",
		Help:      "Number of stored headers not on the active mainchain.",
	})

	HeadersAccepted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lightclient",
		Name:      "headers_accepted_total",
		Help:      "Headers accepted by chain kind and placement.",
	}, []string{"chain", "placement"})

	// HeadersRejected is registered, but no code in this module
	// increments it, so it always reads zero.
	HeadersRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lightclient",
		Name:      "headers_rejected_total",
		Help:      "Header submissions rejected, by error code.",
	}, []string{"chain", "code"})

	ReorgsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lightclient",
		Name:      "reorgs_total",
		Help:      "Number of mainchain reorganizations performed.",
	})

	ReorgDepth = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lightclient",
		Name:      "reorg_depth_blocks",
		Help:      "Depth, in blocks, of each mainchain reorganization.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	GCHeadersPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lightclient",
		Name:      "gc_headers_pruned_total",
		Help:      "Total headers removed by mainchain garbage collection.",
	})

	InclusionProofsVerified = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lightclient",
		Name:      "inclusion_proofs_verified_total",
		Help:      "Merkle inclusion proof checks, by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		TipHeight,
		MainchainSize,
		ForkHeaders,
		HeadersAccepted,
		HeadersRejected,
		ReorgsTotal,
		ReorgDepth,
		GCHeadersPruned,
		InclusionProofsVerified,
	)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
