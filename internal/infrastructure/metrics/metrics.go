package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Raffle metrics
	RafflesInitialized prometheus.Counter
	RafflesClosed      prometheus.Counter
	WinnersDrawn       prometheus.Counter
	PrizesClaimed      prometheus.Counter
	EntriesSold        prometheus.Counter
	FeesCollected      prometheus.Counter
	TransitionDuration *prometheus.HistogramVec
	TransitionErrors   *prometheus.CounterVec

	// Token ledger metrics
	AccountsCreated  prometheus.Counter
	TokensMinted     prometheus.Counter
	TransfersCreated prometheus.Counter
	AssetsRegistered prometheus.Counter

	// Entropy metrics
	EntropyLookups  *prometheus.CounterVec
	EntropyDuration prometheus.Histogram

	// Background workers
	OutboxPublished *prometheus.CounterVec
	OutboxBacklog   prometheus.Gauge
	SweepRuns       *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Redis metrics
	CacheLookups *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Raffle metrics
		RafflesInitialized: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_raffles_initialized_total",
			Help: "Total number of raffles initialized",
		}),
		RafflesClosed: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_raffles_closed_total",
			Help: "Total number of raffles moved to ended",
		}),
		WinnersDrawn: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_winners_drawn_total",
			Help: "Total number of winners drawn",
		}),
		PrizesClaimed: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_prizes_claimed_total",
			Help: "Total number of prizes claimed",
		}),
		EntriesSold: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_entries_sold_total",
			Help: "Total number of raffle entries sold",
		}),
		FeesCollected: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_fees_collected_total",
			Help: "Total token amount collected into raffle escrows",
		}),
		TransitionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goraffle_transition_duration_seconds",
				Help:    "Duration of raffle transitions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"transition"},
		),
		TransitionErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goraffle_transition_errors_total",
				Help: "Total number of rejected raffle transitions by type",
			},
			[]string{"transition", "error_type"},
		),

		// Token ledger metrics
		AccountsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_accounts_created_total",
			Help: "Total number of token accounts created",
		}),
		TokensMinted: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_tokens_minted_total",
			Help: "Total token amount minted from the issuer",
		}),
		TransfersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_transfers_created_total",
			Help: "Total number of token transfers",
		}),
		AssetsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "goraffle_assets_registered_total",
			Help: "Total number of prize assets registered",
		}),

		// Entropy metrics
		EntropyLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goraffle_entropy_lookups_total",
				Help: "Total entropy lookups by result",
			},
			[]string{"result"},
		),
		EntropyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "goraffle_entropy_duration_seconds",
			Help:    "Duration of entropy block lookups",
			Buckets: prometheus.DefBuckets,
		}),

		// Background workers
		OutboxPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goraffle_outbox_published_total",
				Help: "Total outbox events processed by result",
			},
			[]string{"result"},
		),
		OutboxBacklog: f.NewGauge(prometheus.GaugeOpts{
			Name: "goraffle_outbox_backlog",
			Help: "Outbox events waiting to be published",
		}),
		SweepRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goraffle_sweep_runs_total",
				Help: "Total deadline sweep runs by result",
			},
			[]string{"result"},
		),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goraffle_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goraffle_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Redis metrics
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goraffle_cache_lookups_total",
				Help: "Total raffle cache lookups by result; stale counts misses whose fill lost to a transition",
			},
			[]string{"result"},
		),

		// Authentication metrics
		AuthFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goraffle_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goraffle_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
