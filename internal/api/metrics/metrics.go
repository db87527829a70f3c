// Package metrics defines and registers all custom Prometheus metrics for the
// freelance platform API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobsCreatedTotal counts newly posted jobs.
var JobsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of jobs posted.",
	},
)

// JobsDeletedTotal counts deleted jobs. The cascade removes dependent
// proposals in the same transaction, so this also bounds orphan cleanups.
var JobsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_deleted_total",
		Help:      "Total number of jobs deleted (with proposal cascade).",
	},
)

// ── Proposal metrics ──────────────────────────────────────────────────────────

// ProposalsCreatedTotal counts submitted proposals.
var ProposalsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proposals_created_total",
		Help:      "Total number of proposals submitted.",
	},
)

// ProposalsAcceptedTotal counts successful accept transactions.
var ProposalsAcceptedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proposals_accepted_total",
		Help:      "Total number of proposals accepted.",
	},
)

// ProposalsRejectedTotal counts rejected proposals.
// Label:
//   - path: "manual" (client reject) or "cascade" (sibling rejection during accept)
var ProposalsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proposals_rejected_total",
		Help:      "Total number of proposals rejected, by rejection path.",
	},
	[]string{"path"},
)

// AcceptConflictsTotal counts accept attempts refused because the proposal
// was already finalized or the job was no longer open.
var AcceptConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accept_conflicts_total",
		Help:      "Total number of accept attempts refused by a state conflict.",
	},
)
