// Package logging wraps zap with an optional OTLP log bridge. Logs always go
// to stdout; the OTLP exporter is best-effort and never blocks startup.
package logging

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger         *zap.Logger
	loggerProvider *sdklog.LoggerProvider
	serviceName    = "registration-service"
)

// Init builds the production zap logger and, when an OTLP collector is
// reachable, bridges log records to it.
func Init(service string) error {
	serviceName = service

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"

	var err error
	logger, err = cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	ctx := context.Background()

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "otel-collector:4317"
	}

	exporter, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpoint(endpoint),
		otlploggrpc.WithInsecure(),
	)
	if err != nil {
		logger.Warn("OTLP log exporter unavailable, logging to stdout only", zap.Error(err))
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
	)
	if err != nil {
		logger.Warn("Failed to create OTLP resource", zap.Error(err))
		return nil
	}

	loggerProvider = sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(loggerProvider)

	logger.Info("OTLP logging configured")
	return nil
}

// base returns the configured logger, or a no-op one before Init runs.
func base() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// WithTraceContext returns a logger annotated with the span's trace ids so
// log lines can be joined to traces.
func WithTraceContext(span trace.Span) *zap.Logger {
	if span.SpanContext().IsValid() {
		sc := span.SpanContext()
		return base().With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
			zap.String("service", serviceName),
		)
	}
	return base().With(zap.String("service", serviceName))
}

func Info(msg string, fields ...zap.Field) {
	base().With(zap.String("service", serviceName)).Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	base().With(zap.String("service", serviceName)).Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	base().With(zap.String("service", serviceName)).Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	base().With(zap.String("service", serviceName)).Fatal(msg, fields...)
}

// Sync flushes buffered log entries.
func Sync() error {
	if logger != nil {
		return logger.Sync()
	}
	return nil
}

// Shutdown stops the OTLP logger provider if one was configured.
func Shutdown(ctx context.Context) error {
	if loggerProvider != nil {
		return loggerProvider.Shutdown(ctx)
	}
	return nil
}
