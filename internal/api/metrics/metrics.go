// Package metrics defines and registers all custom Prometheus metrics for the
// voting API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry at import time and
// are exposed through the echoprometheus middleware on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zkvote"

// VotesCastTotal counts successfully recorded votes.
var VotesCastTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of votes accepted into the ledger.",
	},
)

// VotesRejectedTotal counts cast attempts that were refused.
// Label:
//   - reason: "duplicate", "inactive_election", "not_found", "invalid_input", "internal"
var VotesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_rejected_total",
		Help:      "Total number of cast attempts rejected, by reason.",
	},
	[]string{"reason"},
)

// ReceiptVerificationsTotal counts public receipt verifications.
// Label:
//   - result: "valid", "invalid", or "not_found"
var ReceiptVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receipt_verifications_total",
		Help:      "Total number of receipt verification requests, by result.",
	},
	[]string{"result"},
)

// ElectionsCreatedTotal counts newly created elections.
var ElectionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "elections_created_total",
		Help:      "Total number of elections created.",
	},
)

// RateLimitedTotal counts requests refused by the fixed-window rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)
