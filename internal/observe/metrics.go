// Package observe - метрики симуляции на OpenTelemetry.
//
// Инструменты создаются из переданного metric.MeterProvider, поэтому в тестах
// их можно читать через ManualReader, а в сервере отдавать через Prometheus.
package observe

import (
	"context"
	"time"

	"cognitive-sim/internal/effects"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "cognitive-sim"

// Metrics - инструменты тика и разбора очереди эффектов.
// Реализует effects.Recorder.
type Metrics struct {
	// Ticks - завершённые тики, атрибут state (состояние, в котором шёл тик).
	Ticks metric.Int64Counter

	// EffectsResolved - разобранные эффекты, атрибут kind.
	EffectsResolved metric.Int64Counter

	// EntitiesDeleted - сущности, удалённые обработчиками, атрибут kind.
	EntitiesDeleted metric.Int64Counter

	DrainDuration metric.Float64Histogram
	DrainEffects  metric.Int64Histogram
}

var drainBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1,
}

var effectCountBuckets = []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256}

// NewMetrics создаёт все инструменты. Ошибка возвращается, если провайдер
// не смог создать хотя бы один из них.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Ticks, err = m.Int64Counter("cdsim.ticks",
		metric.WithDescription("Simulation ticks by turn state."),
	); err != nil {
		return nil, err
	}
	if met.EffectsResolved, err = m.Int64Counter("cdsim.effects.resolved",
		metric.WithDescription("Effects popped from the queue and resolved, by kind."),
	); err != nil {
		return nil, err
	}
	if met.EntitiesDeleted, err = m.Int64Counter("cdsim.entities.deleted",
		metric.WithDescription("Entities deleted by effect handlers, by kind."),
	); err != nil {
		return nil, err
	}
	if met.DrainDuration, err = m.Float64Histogram("cdsim.drain.duration",
		metric.WithDescription("Wall time of one effects queue drain."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(drainBuckets...),
	); err != nil {
		return nil, err
	}
	if met.DrainEffects, err = m.Int64Histogram("cdsim.drain.effects",
		metric.WithDescription("Effects resolved in one drain, cascades included."),
		metric.WithExplicitBucketBoundaries(effectCountBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

func (m *Metrics) EffectResolved(ctx context.Context, kind effects.Kind) {
	m.EffectsResolved.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind.String())))
}

func (m *Metrics) EntityDeleted(ctx context.Context, kind string) {
	m.EntitiesDeleted.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// DrainCompleted записывает длительность и размер прохода.
// Пустые проходы тоже учитываются: каждый тик заканчивается разбором очереди.
func (m *Metrics) DrainCompleted(ctx context.Context, n int, elapsed time.Duration) {
	m.DrainDuration.Record(ctx, elapsed.Seconds())
	m.DrainEffects.Record(ctx, int64(n))
}

// TickCompleted учитывает тик, выполненный в состоянии state.
func (m *Metrics) TickCompleted(ctx context.Context, state string) {
	m.Ticks.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
}
