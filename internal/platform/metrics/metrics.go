// Package metrics holds the engine's Prometheus instruments. Construct
// once in main; services treat a nil *Metrics as "metrics disabled" so
// unit tests need no registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	SubmissionsTotal          prometheus.Counter
	DuplicateSubmissionsTotal prometheus.Counter
	GleamsIssuedTotal         prometheus.Counter
	ReferralGrantsTotal       prometheus.Counter
	ReferralRejectedTotal     prometheus.Counter
	LeaderboardRebuildSeconds prometheus.Histogram
	LeaderboardEntities       prometheus.Gauge
	RequestDuration           *prometheus.HistogramVec
}

// New creates and registers all instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ascent_submissions_total",
			Help: "Accepted assessment submissions",
		}),
		DuplicateSubmissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ascent_duplicate_submissions_total",
			Help: "Resubmissions answered from the original result",
		}),
		GleamsIssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ascent_gleams_issued_total",
			Help: "Gleams credited to the ledger across all sources",
		}),
		ReferralGrantsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ascent_referral_grants_total",
			Help: "Successful double-sided referral grants",
		}),
		ReferralRejectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ascent_referral_rejected_total",
			Help: "Referral grants rejected by precondition checks",
		}),
		LeaderboardRebuildSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ascent_leaderboard_rebuild_seconds",
			Help:    "Duration of leaderboard snapshot rebuilds",
			Buckets: prometheus.DefBuckets,
		}),
		LeaderboardEntities: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ascent_leaderboard_entities",
			Help: "Entities in the latest leaderboard snapshot",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ascent_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler { return promhttp.Handler() }
