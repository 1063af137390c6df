package observability

import (
	"context"
	"errors"

	"github.com/honeynil/player-service/internal/config"
	"github.com/honeynil/player-service/internal/infrastructure/observability"
)

// Setup initializes logs, metrics and traces. The returned func shuts down
// the metrics listener and flushes pending spans.
func Setup(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	observability.InitLogger(cfg.LogLevel)
	metricsServer := observability.InitMetrics(cfg.MetricsAddr)

	tracerShutdown, err := observability.InitTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		var errs []error
		if metricsServer != nil {
			errs = append(errs, metricsServer.Shutdown(ctx))
		}
		errs = append(errs, tracerShutdown(ctx))
		return errors.Join(errs...)
	}, nil
}
