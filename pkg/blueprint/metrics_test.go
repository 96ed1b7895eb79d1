package blueprint

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordedPerRun(t *testing.T) {
	t.Parallel()
	bp, err := newTestBuilder(&fakeClusterProvider{}).
		AddOns(&fakeAddOn{name: "logging"}, &fakeAddOn{name: "networking", pending: Failed(errors.New("timeout"))}).
		Build(NewApp(), "metrics-run", WithObserver(NewMockObserver()))
	require.NoError(t, err)

	_, err = bp.Deploy(context.Background())
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(runsTotal.WithLabelValues("metrics-run", "failed")))
	assert.Equal(t, float64(0), testutil.ToFloat64(runsTotal.WithLabelValues("metrics-run", "succeeded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(addOnDeploymentsTotal.WithLabelValues("metrics-run", "logging", "succeeded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(addOnDeploymentsTotal.WithLabelValues("metrics-run", "networking", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(resourceResolutionsTotal.WithLabelValues("metrics-run", NetworkResource)))
}

func TestMetrics_Disabled(t *testing.T) {
	t.Parallel()
	bp, err := newTestBuilder(&fakeClusterProvider{}).
		AddOns(&fakeAddOn{name: "logging"}).
		Build(NewApp(), "metrics-off", WithObserver(NewMockObserver()), WithMetrics(false))
	require.NoError(t, err)

	_, err = bp.Deploy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(0), testutil.ToFloat64(runsTotal.WithLabelValues("metrics-off", "succeeded")))
	assert.Equal(t, float64(0), testutil.ToFloat64(addOnDeploymentsTotal.WithLabelValues("metrics-off", "logging", "succeeded")))
}

func TestRecordPhaseMetric(t *testing.T) {
	t.Parallel()
	recordPhaseMetric("metrics-phase", "cluster", 1.5)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(phaseDuration, "blueprints_orchestrator_phase_duration_seconds"), 1)
}
