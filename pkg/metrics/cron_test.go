package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.Observe("coupon-expiry", 250*time.Millisecond, nil)
	m.Observe("coupon-expiry", time.Second, errors.New("boom"))
	m.Observe("coupon-expiry", time.Second, errors.New("boom"))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	runs := findMetricFamily(mfs, "carshop_cron_job_runs_total")
	require.NotNil(t, runs)
	byOutcome := map[string]float64{}
	for _, metric := range runs.GetMetric() {
		require.True(t, matchesLabel(metric.GetLabel(), "job", "coupon-expiry"))
		for _, label := range metric.GetLabel() {
			if label.GetName() == "outcome" {
				byOutcome[label.GetValue()] = metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, map[string]float64{"success": 1, "failure": 2}, byOutcome)

	sum, err := fetchHistogramSum(mfs, "carshop_cron_job_duration_seconds", "job", "coupon-expiry")
	require.NoError(t, err)
	assert.InDelta(t, 2.25, sum, 0.0001)

	last := findMetricFamily(mfs, "carshop_cron_job_last_success_timestamp_seconds")
	require.NotNil(t, last)
	assert.Greater(t, last.GetMetric()[0].GetGauge().GetValue(), float64(0))
}

func TestCronJobMetricsNilIsNoop(t *testing.T) {
	var m *CronJobMetrics
	m.Observe("x", time.Second, nil)
	assert.Nil(t, NewCronJobMetrics(nil))
}
