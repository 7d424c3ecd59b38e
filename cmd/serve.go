package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"tumotrack/internal/api"
	"tumotrack/internal/config"
	"tumotrack/internal/predictor"
	"tumotrack/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// setupMeterProvider exports OpenTelemetry instruments on the default
// Prometheus registry and installs the provider globally.
func setupMeterProvider(ctx context.Context) func(ctx context.Context) {
	provider, err := api.NewMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
	}
	otel.SetMeterProvider(provider)

	return func(ctx context.Context) {
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "could not stop meter provider", zap.Error(err))
		}
	}
}

func setupServer(ctx context.Context, cfg *config.Config, p predictor.Predictor) func(ctx context.Context) {
	server, err := api.NewServer(api.Deps{Predictor: p}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the web form and JSON API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stopMeterProvider := setupMeterProvider(ctx)

			journal, closeJournal := getJournal(ctx, cfg)
			defer closeJournal()

			p := getPredictor(ctx, predictor.NewOptions(cfg), journal)
			stopWebserver := setupServer(ctx, cfg, p)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopMeterProvider(shutdownCtx)
		},
	}

	return cmd
}
