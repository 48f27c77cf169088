// Package telemetry настраивает экспорт трассировок OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"hireflow_backend/internal/config"
	"hireflow_backend/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// ShutdownFunc сбрасывает буфер спанов и останавливает экспортер
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init поднимает TracerProvider. При выключенной телеметрии или ошибке
// экспортера остается no-op провайдер, сервис продолжает работу.
func Init(ctx context.Context, cfg *config.Config) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tc := cfg.Telemetry
	if !tc.Enabled {
		logger.Info("tracing disabled")
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(tc.ServiceName),
			semconv.DeploymentEnvironmentKey.String(cfg.Server.Env),
		),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	exporter, err := newExporter(ctx, tc.Protocol, tc.Endpoint)
	if err != nil {
		logger.Error("tracing exporter init failed, falling back to noop", "error", err)
		return noopShutdown, nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(tc.SampleRatio)),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing configured",
		"protocol", tc.Protocol,
		"endpoint", tc.Endpoint,
		"sample_ratio", tc.SampleRatio,
	)
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, protocol, endpoint string) (*otlptrace.Exporter, error) {
	switch protocol {
	case "", "grpc":
		var opts []otlptracegrpc.Option
		if endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpointURL(endpoint))
		}
		return otlptracegrpc.New(ctx, opts...)
	case "http", "http/protobuf":
		var opts []otlptracehttp.Option
		if endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(endpoint))
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", protocol)
	}
}

// Sampler учитывает решение родительского спана, корневые спаны сэмплирует по доле
func Sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}
