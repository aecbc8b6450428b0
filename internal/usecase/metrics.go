package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var writeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "offchain",
	Name:      "write_outcomes_total",
	Help:      "Authenticated write attempts by record kind and outcome.",
}, []string{"kind", "outcome"})

const (
	outcomeAccepted     = "accepted"
	outcomeBadRequest   = "bad_request"
	outcomeHashMismatch = "hash_mismatch"
	outcomeInvalidAlias = "invalid_alias"
	outcomeUnavailable  = "resolver_unavailable"
	outcomeSignature    = "signature_failed"
	outcomeStoreFailure = "store_failure"
)
