package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors the server updates as it
// accepts connections and dispatches requests. A nil *Metrics on Server
// disables metrics entirely; every call site checks for nil first.
type Metrics struct {
	ConnectionsAccepted prometheus.Counter
	RequestsByVariant   *prometheus.CounterVec
	DispatchLatency     *prometheus.HistogramVec
	ProofWrites         *prometheus.CounterVec
	AttestationOutcomes *prometheus.CounterVec
}

// NewMetrics registers the coordinator's collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConnectionsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "proofcoordinator",
			Name:      "connections_accepted_total",
			Help:      "Total TCP connections accepted by the listener.",
		}),
		RequestsByVariant: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "proofcoordinator",
			Name:      "requests_total",
			Help:      "Requests dispatched, by wire message variant.",
		}, []string{"variant"}),
		DispatchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "proofcoordinator",
			Name:      "dispatch_latency_seconds",
			Help:      "Time spent handling a request after decode, by variant.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"variant"}),
		ProofWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "proofcoordinator",
			Name:      "proof_writes_total",
			Help:      "Proof store writes, by outcome (ok/error).",
		}, []string{"outcome"}),
		AttestationOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "proofcoordinator",
			Name:      "attestation_setup_total",
			Help:      "Prover setup requests of any kind (TDX attestation or no-op), by outcome (ok/error).",
		}, []string{"outcome"}),
	}
}
