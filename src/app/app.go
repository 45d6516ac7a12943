// Package app wires configuration into the chat service and its
// collaborators.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/elee1766/medassist/src/chat"
	"github.com/elee1766/medassist/src/config"
	"github.com/elee1766/medassist/src/conversation"
	"github.com/elee1766/medassist/src/orclient"
	"github.com/elee1766/medassist/src/provider"
	"github.com/elee1766/medassist/src/safety"
	"github.com/elee1766/medassist/src/snapshot"
)

// ErrMissingAPIKey is returned when no API key is configured for a provider
// that needs one.
var ErrMissingAPIKey = errors.New("no API key configured")

// App represents the main application with all services
type App struct {
	Config    *config.Config
	Models    *orclient.Client
	Provider  *provider.Client
	Store     *conversation.Store
	Snapshots *snapshot.Writer
	Chat      *chat.Service
	Cleanup   *conversation.CleanupService
	Logger    *slog.Logger
}

// Options holds what New needs besides the configuration.
type Options struct {
	Logger *slog.Logger
	// Fs backs snapshot files; defaults to the OS filesystem.
	Fs afero.Fs
	// RequireAPIKey fails New when no key is configured. The local provider
	// never requires one.
	RequireAPIKey bool
	// Sleep overrides the retry wait, mostly for tests.
	Sleep provider.SleepFunc
}

// New creates a new App instance with all services initialized
func New(cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if opts.RequireAPIKey && cfg.API.APIKey == "" && cfg.API.Provider != "local" {
		return nil, ErrMissingAPIKey
	}

	models := orclient.NewClient(orclient.Config{
		APIKey:   cfg.API.APIKey,
		BaseURL:  cfg.API.ResolvedBaseURL(),
		Logger:   logger,
		Timeout:  cfg.API.Timeout.Std(),
		SiteURL:  cfg.API.SiteURL,
		SiteName: cfg.API.SiteName,

		KeyOptional: cfg.API.Provider == "local",
	})

	systemPrompt := cfg.Model.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = provider.DefaultSystemPrompt
	}
	llm := provider.NewClient(models, provider.Config{
		Model:        cfg.Model.ID,
		Temperature:  cfg.Model.Temperature,
		MaxTokens:    cfg.Model.MaxTokens,
		SystemPrompt: systemPrompt,
		MaxAttempts:  cfg.Retry.MaxAttempts,
		BaseDelay:    cfg.Retry.BaseDelay.Std(),
		Logger:       logger,
		Sleep:        opts.Sleep,
	})

	store := conversation.NewStore(conversation.Options{
		MaxTurns: cfg.Session.MaxTurns,
		AppName:  cfg.Session.AppName,
		Model:    cfg.Model.ID,
		Logger:   logger,
	})

	var snapshots *snapshot.Writer
	if cfg.Snapshot.Directory != "" {
		snapshots = snapshot.NewWriter(fs, cfg.Snapshot.Directory, logger)
	}

	service, err := chat.NewService(chat.Options{
		Screen:    safety.NewScreen(),
		Store:     store,
		Provider:  llm,
		Snapshots: snapshots,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Models:    models,
		Provider:  llm,
		Store:     store,
		Snapshots: snapshots,
		Chat:      service,
		Cleanup:   conversation.NewCleanupService(store, cfg.Session.IdleTTL.Std(), cfg.Session.CleanupInterval.Std(), logger),
		Logger:    logger,
	}, nil
}

// Start launches background services. Idle eviction only runs when a TTL is
// configured.
func (a *App) Start(ctx context.Context) {
	a.Cleanup.Start(ctx)
}

// Close stops background services.
func (a *App) Close() error {
	a.Cleanup.Stop()
	return nil
}
