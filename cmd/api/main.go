package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	_ "orderservice/docs"
	"orderservice/pkg/api"
	"orderservice/pkg/config"
	"orderservice/pkg/logger"
	"orderservice/pkg/middleware"
	"orderservice/pkg/order"
	"orderservice/pkg/order/memory"
	"orderservice/pkg/otel"
)

// @title Order Service API
// @version 1.0
// @description In-memory order management API
// @BasePath /
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	lg, err := logger.New(api.ServiceName, cfg.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, lg, cfg); err != nil {
		lg.Error("Server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// run wires the service and serves until ctx is cancelled.
func run(ctx context.Context, lg *zap.Logger, cfg *config.Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr()),
		zap.Bool("debug", cfg.Debug()),
	)

	tp, shutdownTracing, err := otel.InitTracing(lg, otel.Config{
		ServiceName: api.ServiceName,
		Host:        cfg.OTELHost,
		Probability: cfg.TraceProbability,
	})
	if err != nil {
		return errors.Wrap(err, "init tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			lg.Error("Tracing shutdown error", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(lg, cfg, tp.Tracer(api.ServiceName), reg),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr()))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// newRouter builds the store, service and handlers and mounts them behind
// the middleware chain together with /metrics and /swagger/.
func newRouter(lg *zap.Logger, cfg *config.Config, tracer trace.Tracer, reg *prometheus.Registry) *mux.Router {
	svc := order.NewService(memory.New())
	r := api.NewRouter(api.NewHandler(svc, lg, cfg.Environment))

	metrics := middleware.NewMetrics("api", reg)
	r.Use(middleware.Chain(lg, tracer, metrics)...)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}
