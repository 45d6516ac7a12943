package main

import (
	"context"
	"errors"
	"time"

	"github.com/elee1766/medassist/src/api"
	"github.com/elee1766/medassist/src/app"
)

// ServeCmd serves the HTTP API
type ServeCmd struct {
	Addr            string        `help:"Listen address (overrides server.addr)"`
	ShutdownTimeout time.Duration `help:"How long to wait for in-flight requests on shutdown" default:"10s"`
}

func (s *ServeCmd) Run(ctx context.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	logger := createCLILogger(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	appInstance, err := app.New(cfg, app.Options{Logger: logger, RequireAPIKey: true})
	if err != nil {
		return err
	}
	defer appInstance.Close()
	appInstance.Start(ctx)

	server := api.New(api.Options{
		Service:      appInstance.Chat,
		AllowOrigins: cfg.Server.AllowOrigins,
		AppName:      cfg.Session.AppName,
		Logger:       logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.Addr, "model", cfg.Model.ID)
		errCh <- server.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
