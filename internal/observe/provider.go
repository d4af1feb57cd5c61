package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ProviderConfig - параметры ресурса, под которым публикуются метрики.
type ProviderConfig struct {
	ServiceName    string // по умолчанию "cognitive-sim"
	ServiceVersion string
}

// InitProvider ставит глобальный MeterProvider с Prometheus-экспортёром.
// Экспортёр регистрируется в prometheus.DefaultRegisterer, так что
// /metrics обслуживается обычным promhttp.Handler().
//
// Возвращает функцию остановки провайдера для defer в main.
func InitProvider(ctx context.Context, cfg ProviderConfig) (shutdown func(context.Context) error, err error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = meterName
	}

	res, err := resource.Merge(
		resource.Default(),
		// Без схемы: у resource.Default() своя версия semconv.
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	exp, err := promexporter.New()
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exp),
	)
	otel.SetMeterProvider(mp)

	return mp.Shutdown, nil
}

// Global возвращает Metrics поверх глобального провайдера (после InitProvider
// это Prometheus, до него - no-op провайдер otel).
func Global() (*Metrics, error) {
	return NewMetrics(otel.GetMeterProvider())
}
