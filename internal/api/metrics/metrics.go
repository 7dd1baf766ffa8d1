// Package metrics defines and registers all custom Prometheus metrics for the
// watch-list API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is first imported, so they are exposed by the /metrics
// handler without further setup.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "watchlist"

// ── Access guard metrics ──────────────────────────────────────────────────────

// GuardDecisionsTotal counts access guard outcomes.
// Label:
//   - decision: "allowed", "bad_request", "unauthorized", or "forbidden"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of access guard decisions, by outcome.",
	},
	[]string{"decision"},
)

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "success", "invalid_credentials", or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by the auth rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Pipeline metrics ──────────────────────────────────────────────────────────

// PipelineRunsTotal counts completed operation pipelines.
// Labels:
//   - resource: "user", "anime", "list", or "list_entry"
//   - kind: "add", "edit", or "delete"
//   - outcome: "ok" or "error"
var PipelineRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_runs_total",
		Help:      "Total number of operation pipeline runs, by resource, kind and outcome.",
	},
	[]string{"resource", "kind", "outcome"},
)

// ── Catalog cache metrics ─────────────────────────────────────────────────────

// CatalogCacheTotal counts catalog cache lookups.
// Label:
//   - result: "hit", "miss", "error", or "stale" (write skipped after an invalidation)
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Total number of catalog cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Credential migration metrics ──────────────────────────────────────────────

// RehashQueueDepth tracks pending re-hash jobs per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RehashQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rehash_queue_depth",
		Help:      "Current number of credential re-hash jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RehashTotal counts processed re-hash jobs.
// Label:
//   - result: "ok", "dropped", or "error"
var RehashTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rehash_total",
		Help:      "Total number of credential re-hash jobs, by result.",
	},
	[]string{"result"},
)
