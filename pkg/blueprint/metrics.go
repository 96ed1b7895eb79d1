package blueprint

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blueprints",
			Subsystem: "orchestrator",
			Name:      "runs_total",
			Help:      "Total number of blueprint deployments by result",
		},
		[]string{"blueprint", "result"},
	)

	phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blueprints",
			Subsystem: "orchestrator",
			Name:      "phase_duration_seconds",
			Help:      "Duration of deployment phases in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.4min
		},
		[]string{"blueprint", "phase"},
	)

	addOnDeploymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blueprints",
			Subsystem: "addon",
			Name:      "deployments_total",
			Help:      "Total number of add-on deployments by result",
		},
		[]string{"blueprint", "addon", "result"},
	)

	resourceResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blueprints",
			Subsystem: "resource",
			Name:      "resolutions_total",
			Help:      "Total number of resource provider invocations",
		},
		[]string{"blueprint", "key"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		runsTotal,
		phaseDuration,
		addOnDeploymentsTotal,
		resourceResolutionsTotal,
	)
}

func recordRunMetric(blueprint, result string) {
	runsTotal.WithLabelValues(blueprint, result).Inc()
}

func recordPhaseMetric(blueprint, phase string, seconds float64) {
	phaseDuration.WithLabelValues(blueprint, phase).Observe(seconds)
}

func recordAddOnMetric(blueprint, addOn, result string) {
	addOnDeploymentsTotal.WithLabelValues(blueprint, addOn, result).Inc()
}

func recordResolutionMetric(blueprint, key string) {
	resourceResolutionsTotal.WithLabelValues(blueprint, key).Inc()
}

// Metrics helper methods that check enableMetrics before recording.

func (bp *Blueprint) recordRun(result string) {
	if bp.enableMetrics {
		recordRunMetric(bp.cfg.ID, result)
	}
}

func (bp *Blueprint) recordPhase(phase string, seconds float64) {
	if bp.enableMetrics {
		recordPhaseMetric(bp.cfg.ID, phase, seconds)
	}
}

func (bp *Blueprint) recordAddOn(addOn, result string) {
	if bp.enableMetrics {
		recordAddOnMetric(bp.cfg.ID, addOn, result)
	}
}

func (bp *Blueprint) recordResolution(key string) {
	if bp.enableMetrics {
		recordResolutionMetric(bp.cfg.ID, key)
	}
}
