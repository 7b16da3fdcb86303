package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useRegistry(t *testing.T) {
	t.Helper()
	prev := Registerer
	Registerer = prometheus.NewRegistry()
	t.Cleanup(func() {
		Registerer = prev
		MetricSystemEnabled = false
		MetricCollectionCounters = make(map[string]prometheus.Counter)
		MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
	})
}

func TestCreateAndIncrement(t *testing.T) {
	useRegistry(t)
	require.NoError(t, Create("test-host", "test", "clinic"))
	assert.True(t, MetricSystemEnabled)

	IncLinkPrepared("reminder")
	IncLinkPrepared("reminder")
	IncNormalizationFailure("length")
	IncMessageRecorded()
	IncDuplicateClick()
	IncHistoryDataError()

	links := MetricCollectionCounterVec[SystemWhatsApp+MetricLinksPrepared]
	assert.Equal(t, 2.0, testutil.ToFloat64(links.WithLabelValues("reminder")))

	failures := MetricCollectionCounterVec[SystemWhatsApp+MetricNormalizationFailures]
	assert.Equal(t, 1.0, testutil.ToFloat64(failures.WithLabelValues("length")))

	assert.Equal(t, 1.0, testutil.ToFloat64(MetricCollectionCounters[SystemWhatsApp+MetricMessagesRecorded]))
}

func TestCreateTwiceFails(t *testing.T) {
	useRegistry(t)
	require.NoError(t, Create("h", "test", "clinic"))
	assert.Error(t, Create("h", "test", "clinic"))
}

func TestDisabledIsNoop(t *testing.T) {
	MetricSystemEnabled = false
	assert.NotPanics(t, func() {
		IncLinkPrepared("reminder")
		IncMessageRecorded()
	})
}

func TestCreateMetric_UnknownType(t *testing.T) {
	assert.Error(t, CreateMetric("summary", SystemWhatsApp, "x"))
}
