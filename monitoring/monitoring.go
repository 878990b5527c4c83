// Package monitoring owns OpenTelemetry setup and the metric instruments the
// registration flow records against.
package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"registration-service/logging"
)

var (
	// RegistrationCounter counts register calls by outcome
	// (success, validation, processor, gateway).
	RegistrationCounter metric.Int64Counter
	// ChargeAmount records settled charge amounts in USD.
	ChargeAmount metric.Float64Histogram
	// EmailCounter counts confirmation email attempts by status.
	EmailCounter metric.Int64Counter
	// ExternalCallDuration records payment-gateway and email-service call
	// durations in seconds, keyed by a "target" attribute.
	ExternalCallDuration metric.Float64Histogram
	// HTTPServerDuration records inbound request duration in milliseconds.
	HTTPServerDuration metric.Float64Histogram
)

// InitTracer initializes OpenTelemetry tracing
func InitTracer(serviceName, endpoint string) (*sdktrace.TracerProvider, trace.Tracer, error) {
	ctx := context.Background()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	tracer := tp.Tracer(serviceName)

	logging.Info("Tracing initialized", zap.String("service_name", serviceName))

	return tp, tracer, nil
}

// InitMeter initializes OpenTelemetry metrics with an OTLP exporter and
// registers the service's instruments.
func InitMeter(serviceName, endpoint string) (*sdkmetric.MeterProvider, metric.Meter, error) {
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)
	meter := mp.Meter(serviceName)

	RegistrationCounter, err = meter.Int64Counter(
		"registrations_total",
		metric.WithDescription("Total number of registration attempts"),
	)
	if err != nil {
		return nil, nil, err
	}

	ChargeAmount, err = meter.Float64Histogram(
		"charge_amount_usd",
		metric.WithDescription("Settled charge amounts in USD"),
	)
	if err != nil {
		return nil, nil, err
	}

	EmailCounter, err = meter.Int64Counter(
		"confirmation_emails_total",
		metric.WithDescription("Total number of confirmation email attempts"),
	)
	if err != nil {
		return nil, nil, err
	}

	ExternalCallDuration, err = meter.Float64Histogram(
		"external_call_duration_seconds",
		metric.WithDescription("Duration of payment-gateway and email-service calls"),
	)
	if err != nil {
		return nil, nil, err
	}

	HTTPServerDuration, err = meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP server request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, nil, err
	}

	logging.Info("Metrics initialized with OTLP exporter", zap.String("endpoint", endpoint))

	return mp, meter, nil
}
