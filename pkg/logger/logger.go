// Package logger provides a zap-based application logger.
package logger

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"orderservice/pkg/otel"
)

// New builds the service logger. The development environment gets a
// human-readable debug logger, every other environment logs JSON at info.
func New(service, environment string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	lg, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return lg.With(
		zap.String("service", service),
		zap.String("environment", environment),
	), nil
}

// WithTrace returns lg annotated with the trace id of the span in ctx, if any.
func WithTrace(ctx context.Context, lg *zap.Logger) *zap.Logger {
	id := otel.GetTraceID(ctx)
	if id == "" {
		return lg
	}
	return lg.With(zap.String("trace_id", id))
}
