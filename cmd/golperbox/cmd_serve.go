package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"golperbox/internal/app"
	"golperbox/internal/telemetry"
	"golperbox/internal/web"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the landing page HTTP service",
		Long: `Run the landing page, the subscription API and the live countdown stream.
The server shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, logger := opts.cfg, opts.logger

	tp, err := telemetry.InitTracing(ctx, telemetry.TracingConfig{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Exporter:       cfg.Telemetry.Exporter,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := telemetry.ShutdownTracing(context.Background(), tp); err != nil {
			logger.WithError(err).Error("Error shutting down tracer provider")
		}
	}()

	application := app.Build(&app.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Port:           cfg.Server.Port,
		Logger:         logger,
		TracerProvider: tp,
		GinMode:        cfg.Server.GinMode,
		LaunchTarget:   cfg.LaunchTarget(),
		TickInterval:   cfg.Launch.TickInterval,
		Site: web.Site{
			Brand:        cfg.Site.Brand,
			FacebookURL:  cfg.Site.FacebookURL,
			InstagramURL: cfg.Site.InstagramURL,
		},
		Form: cfg.RelayConfig(),
	})

	logger.WithFields(logrus.Fields{
		"launch_target": cfg.LaunchTarget(),
		"form_url":      cfg.Form.URL,
	}).Info("Landing service configured")

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}
