package observability

import (
	"context"

	"github.com/talentbill/talentbill/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
	fx.Invoke(SetupTracing),
)

func NewLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Server.Mode == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// SetupTracing installs a global OTLP trace provider when an endpoint is
// configured. Without one, tracing stays on the default no-op provider.
func SetupTracing(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) {
	endpoint := cfg.Observability.OTLPEndpoint
	if endpoint == "" {
		return
	}

	var provider *sdktrace.TracerProvider

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			exporter, err := otlptracehttp.New(ctx,
				otlptracehttp.WithEndpoint(endpoint),
				otlptracehttp.WithInsecure(),
			)
			if err != nil {
				return err
			}
			res, err := resource.New(ctx,
				resource.WithAttributes(
					semconv.ServiceName(cfg.Observability.ServiceName),
				),
			)
			if err != nil {
				return err
			}
			provider = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(exporter),
				sdktrace.WithResource(res),
			)
			otel.SetTracerProvider(provider)
			log.Info("tracing enabled", zap.String("otlp_endpoint", endpoint))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if provider == nil {
				return nil
			}
			return provider.Shutdown(ctx)
		},
	})
}
