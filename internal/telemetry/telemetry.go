// Package telemetry sets up OpenTelemetry trace and log export over OTLP/HTTP.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rezeptbox/internal/config"
)

// Providers hands out what the rest of the program needs from telemetry.
// When export is disabled TracerProvider is a no-op and Logs is nil.
type Providers struct {
	TracerProvider trace.TracerProvider
	Logs           slog.Handler
	shutdown       []func(context.Context) error
}

// Setup starts the exporters when cfg is enabled and registers the tracer
// provider globally.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Providers, error) {
	if !cfg.Enabled() {
		return &Providers{TracerProvider: noop.NewTracerProvider()}, nil
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	traceExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	logExporter, err := otlploghttp.New(ctx)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create log exporter: %w", err)
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	slog.Info("exporting telemetry", "endpoint", cfg.Endpoint, "service", cfg.ServiceName)
	return &Providers{
		TracerProvider: tp,
		Logs:           otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(lp)),
		shutdown:       []func(context.Context) error{tp.Shutdown, lp.Shutdown},
	}, nil
}

// Shutdown flushes and stops every exporter Setup started.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	for _, f := range p.shutdown {
		errs = append(errs, f(ctx))
	}
	return errors.Join(errs...)
}
