package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Deposit metrics
	DepositsRecorded prometheus.Counter
	DepositsFailed   prometheus.Counter
	DepositsReplayed prometheus.Counter
	DepositAmount    prometheus.Histogram

	// Withdrawal metrics
	WithdrawalsRequested prometheus.Counter
	WithdrawalsApproved  prometheus.Counter
	WithdrawalsRejected  prometheus.Counter
	ResolutionDuration   prometheus.Histogram

	// Goal metrics
	GoalsCreated prometheus.Counter

	// Reconciliation metrics
	ReconciliationRuns     prometheus.Counter
	ReconciliationDuration prometheus.Histogram
	ReconciliationFindings *prometheus.GaugeVec

	// Database metrics
	DBErrors *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		DepositsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "savings_deposits_recorded_total",
			Help: "Total number of deposits recorded successfully",
		}),
		DepositsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "savings_deposits_failed_total",
			Help: "Total number of deposits that failed settlement",
		}),
		DepositsReplayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "savings_deposits_replayed_total",
			Help: "Total number of deposits short-circuited by an idempotency key",
		}),
		DepositAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "savings_deposit_amount",
			Help:    "Deposit amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		WithdrawalsRequested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "savings_withdrawals_requested_total",
			Help: "Total number of withdrawal requests created",
		}),
		WithdrawalsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "savings_withdrawals_approved_total",
			Help: "Total number of withdrawals approved",
		}),
		WithdrawalsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "savings_withdrawals_rejected_total",
			Help: "Total number of withdrawals rejected",
		}),
		ResolutionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "savings_withdrawal_resolution_duration_seconds",
			Help:    "Duration of withdrawal approve/reject operations",
			Buckets: prometheus.DefBuckets,
		}),

		GoalsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "savings_goals_created_total",
			Help: "Total number of goals created",
		}),

		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "savings_reconciliation_runs_total",
			Help: "Total number of reconciliation audits executed",
		}),
		ReconciliationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "savings_reconciliation_duration_seconds",
			Help:    "Duration of reconciliation audits",
			Buckets: prometheus.DefBuckets,
		}),
		ReconciliationFindings: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "savings_reconciliation_findings",
				Help: "Findings reported by the last reconciliation audit, per check",
			},
			[]string{"check"},
		),

		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savings_db_errors_total",
				Help: "Total database errors by operation",
			},
			[]string{"operation"},
		),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "savings_outbox_events_published_total",
			Help: "Total number of outbox events published",
		}),
	}
}
