package main

import (
	"context"
	"errors"

	"calculator-api/internal/config"
	"calculator-api/internal/observability"
)

// initTelemetry installs the meter provider (always, so /metrics serves the
// calculator instruments) and, when enabled, the OTLP trace and log pipelines.
// The returned function shuts down everything that was started.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	metricShutdown, err := observability.InitMetrics(ctx, cfg.Enabled)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, metricShutdown)

	if !cfg.Enabled {
		return shutdown, nil
	}

	traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	shutdowns = append(shutdowns, logShutdown)

	return shutdown, nil
}
