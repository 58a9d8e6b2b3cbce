// Package metrics declares the Prometheus counters of the prompt workbench.
// HTTP request metrics come from the gin middleware in cmd/api.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prompt_generations_total",
		Help: "Test runs of assembled prompts, by outcome.",
	}, []string{"outcome"})

	RefinementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prompt_refinements_total",
		Help: "Section refinement requests, by section and outcome.",
	}, []string{"section", "outcome"})

	ArchiveWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prompt_archive_writes_total",
		Help: "Archive attempts after a successful generation, by outcome.",
	}, []string{"outcome"})

	AccessDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prompt_access_denied_total",
		Help: "Requests rejected by the access gate, by reason.",
	}, []string{"reason"})
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "empty"
)
