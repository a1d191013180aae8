package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"matchability/internal/common/logger"
)

// Observability owns the OpenTelemetry meter for scoring and job
// throughput. A zero value is safe to use and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	scored        otelmetric.Int64Counter
	duration      otelmetric.Float64Histogram
}

// New exports through the default Prometheus registerer.
func New(serviceName string, log logger.Logger) *Observability {
	return NewWithRegisterer(serviceName, promclient.DefaultRegisterer, log)
}

func NewWithRegisterer(serviceName string, reg promclient.Registerer, log logger.Logger) *Observability {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	scored, _ := meter.Int64Counter(
		"opportunities.scored",
		otelmetric.WithDescription("Number of opportunities scored"),
	)
	duration, _ := meter.Float64Histogram(
		"opportunities.scoring.duration",
		otelmetric.WithDescription("End-to-end scoring duration including side effects"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		scored:        scored,
		duration:      duration,
	}
}

func (o *Observability) RecordScored(ctx context.Context, source, status string) {
	if o == nil || o.scored == nil {
		return
	}
	o.scored.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDuration(ctx context.Context, source string, d time.Duration) {
	if o == nil || o.duration == nil {
		return
	}
	o.duration.Record(ctx, float64(d.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("source", source),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
