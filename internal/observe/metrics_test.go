package observe

import (
	"context"
	"testing"
	"time"

	"cognitive-sim/internal/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor возвращает значение счётчика для точки с атрибутом key=value.
func sumFor(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", m.Data)
	for _, dp := range sum.DataPoints {
		if v, found := dp.Attributes.Value(attribute.Key(key)); found && v.AsString() == value {
			return dp.Value
		}
	}
	return 0
}

func TestMetrics_ImplementsRecorder(t *testing.T) {
	m, _ := newTestMetrics(t)
	var _ effects.Recorder = m
}

func TestMetrics_EffectResolvedByKind(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.EffectResolved(ctx, effects.KindDamage)
	m.EffectResolved(ctx, effects.KindDamage)
	m.EffectResolved(ctx, effects.KindBloodstain)

	got := findMetric(collect(t, reader), "cdsim.effects.resolved")
	assert.Equal(t, int64(2), sumFor(t, got, "kind", effects.KindDamage.String()))
	assert.Equal(t, int64(1), sumFor(t, got, "kind", effects.KindBloodstain.String()))
}

func TestMetrics_TicksAndDeletions(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.TickCompleted(ctx, "PlayerTurn")
	m.TickCompleted(ctx, "MonsterTurn")
	m.TickCompleted(ctx, "MonsterTurn")
	m.EntityDeleted(ctx, "MONSTER")

	rm := collect(t, reader)
	assert.Equal(t, int64(2), sumFor(t, findMetric(rm, "cdsim.ticks"), "state", "MonsterTurn"))
	assert.Equal(t, int64(1), sumFor(t, findMetric(rm, "cdsim.entities.deleted"), "kind", "MONSTER"))
}

func TestMetrics_DrainCompleted(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.DrainCompleted(ctx, 3, 2*time.Millisecond)
	m.DrainCompleted(ctx, 0, time.Microsecond)

	rm := collect(t, reader)

	dur := findMetric(rm, "cdsim.drain.duration")
	require.NotNil(t, dur)
	hist, ok := dur.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)

	cnt := findMetric(rm, "cdsim.drain.effects")
	require.NotNil(t, cnt)
	ih, ok := cnt.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, ih.DataPoints, 1)
	assert.Equal(t, int64(3), ih.DataPoints[0].Sum)
}
