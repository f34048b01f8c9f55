package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level collectors, registered on the default registry at init.
var (
	// Account metrics
	AccountsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeteer_accounts_created_total",
		Help: "Total number of accounts created",
	})
	AccountsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeteer_accounts_archived_total",
		Help: "Total number of accounts archived",
	})
	BalanceResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeteer_balance_resets_total",
		Help: "Total number of account balance resets",
	})

	// Recurring metrics
	RecurringsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeteer_recurrings_confirmed_total",
		Help: "Total number of recurring items confirmed",
	})
	RecurringsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeteer_recurrings_skipped_total",
		Help: "Total number of recurring items skipped",
	})
	AnchorConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeteer_anchor_conflicts_total",
		Help: "Total number of anchor advance conflicts detected",
	})

	// Summary metrics
	SummariesComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeteer_summaries_computed_total",
		Help: "Total number of balance summaries computed",
	})
	SummaryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeteer_summary_cache_hits_total",
		Help: "Total number of summary cache hits",
	})

	// API metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budgeteer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "budgeteer_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Authentication metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budgeteer_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)
	RateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeteer_rate_limit_hits_total",
		Help: "Total number of rate limited requests",
	})
)
