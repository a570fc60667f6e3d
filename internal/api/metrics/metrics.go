// Package metrics defines and registers all custom Prometheus metrics for the
// Kedikian admin gateway. It is the single source of truth for metric names,
// labels, and help strings. Metrics register themselves with the default
// registry via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kedikian"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts against the backend token endpoint.
// Label:
//   - result: "success", "rejected" (bad credentials) or "error" (transport)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionInvalidationsTotal counts sessions torn down outside explicit logout.
// Label:
//   - reason: "unauthorized" (401 from backend) or "corrupt_storage"
var SessionInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of forced session invalidations, by reason.",
	},
	[]string{"reason"},
)

// ── Authorizer metrics ────────────────────────────────────────────────────────

// TokenWaitsTotal counts requests that hit the bounded token-wait path because
// the credential store was empty at request time.
// Label:
//   - outcome: "recovered" (token appeared on re-read) or "missing"
var TokenWaitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_waits_total",
		Help:      "Requests that waited for the credential store, by outcome.",
	},
	[]string{"outcome"},
)

// ── Response cache metrics ────────────────────────────────────────────────────

// CacheRequestsTotal counts cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of response cache lookups, by result.",
	},
	[]string{"result"},
)

// CacheFetchDuration measures backend fetch latency on cache misses,
// including retries.
var CacheFetchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_fetch_duration_seconds",
		Help:      "Duration of backend fetches triggered by cache misses.",
		Buckets:   prometheus.DefBuckets,
	},
)
