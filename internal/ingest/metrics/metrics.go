package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransfersRecorded tracks transfers inserted after dedup
	TransfersRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ethtribute_transfers_recorded_total",
			Help: "Total number of new transfers persisted",
		},
	)

	// DonationsRecorded tracks donation upserts by prior state
	DonationsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethtribute_donations_recorded_total",
			Help: "Total number of donation upserts",
		},
		[]string{"state"}, // new, resighted
	)

	// PollCycles tracks completed poll loop cycles
	PollCycles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ethtribute_poll_cycles_total",
			Help: "Total number of completed poll cycles",
		},
	)

	// StepErrors tracks swallowed errors per pipeline step
	StepErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethtribute_step_errors_total",
			Help: "Total number of errors per ingestion step",
		},
		[]string{"step"}, // backfill, reconcile, scan
	)

	// ExplorerCalls tracks explorer API calls by action and outcome
	ExplorerCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethtribute_explorer_calls_total",
			Help: "Total number of explorer API calls",
		},
		[]string{"action", "outcome"},
	)

	// NameLookups tracks reverse resolution attempts by outcome
	NameLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethtribute_name_lookups_total",
			Help: "Total number of reverse name lookups",
		},
		[]string{"outcome"}, // resolved, fallback, cached
	)

	// ScanHead tracks the chain head observed by the scanner
	ScanHead = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ethtribute_scan_head_block",
			Help: "Latest chain head seen by the log scanner",
		},
	)

	// DBConnectionPoolUsage tracks connection pool utilization percentage
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ethtribute_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
