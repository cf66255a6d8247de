package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	sessionCounter     otelmetric.Int64Counter
	sessionAccuracy    otelmetric.Float64Histogram
	populationDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sessionCounter, _ := meter.Int64Counter(
		"sessions.completed",
		otelmetric.WithDescription("Number of fully decided sessions"),
	)

	sessionAccuracy, _ := meter.Float64Histogram(
		"session.accuracy",
		otelmetric.WithDescription("Accuracy of completed sessions"),
		otelmetric.WithUnit("%"),
	)

	populationDuration, _ := meter.Float64Histogram(
		"queue.population.duration",
		otelmetric.WithDescription("Queue population duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		sessionCounter:     sessionCounter,
		sessionAccuracy:    sessionAccuracy,
		populationDuration: populationDuration,
	}
}

func (o *Observability) RecordSessionCompleted(ctx context.Context, questID string, accuracy float64) {
	if o.sessionCounter != nil {
		o.sessionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("quest", questID),
		))
	}
	if o.sessionAccuracy != nil {
		o.sessionAccuracy.Record(ctx, accuracy, otelmetric.WithAttributes(
			attribute.String("quest", questID),
		))
	}
}

func (o *Observability) RecordPopulationDuration(ctx context.Context, duration time.Duration, questID string) {
	if o.populationDuration != nil {
		o.populationDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("quest", questID),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
