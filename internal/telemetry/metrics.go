package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики выполнения пайплайнов. Экспортируются на /metrics
// в режиме rollout schedule.
var (
	// RunsTotal — количество завершённых runs по статусу (COMPLETED, ABORTED).
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rollout_runs_total",
		Help: "Total pipeline runs by terminal status",
	}, []string{"status"})

	// StepFailuresTotal — количество отказов шагов по политике (ABORT,
	// WARN_AND_CONTINUE). Tolerated-отказы видны здесь, даже когда run COMPLETED.
	StepFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rollout_step_failures_total",
		Help: "Total step failures by failure policy",
	}, []string{"policy"})

	// StepDuration — длительность выполнения шагов.
	StepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rollout_step_duration_seconds",
		Help:    "Step execution duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"step_id"})
)
