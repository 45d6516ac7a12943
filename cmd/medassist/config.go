package main

import (
	"fmt"

	"github.com/elee1766/medassist/src/config"
)

// loadConfig reads the configuration from the standard sources and applies
// the global flags on top.
func loadConfig(cli *CLI) (*config.Config, error) {
	sources := config.DefaultSources()
	if cli.Config != "" {
		sources.Files = append(sources.Files, cli.Config)
	}

	cfg, err := config.NewLoader(sources).Load()
	if err != nil {
		return nil, err
	}

	applyFlags(cfg, cli)

	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, cli *CLI) {
	if cli.APIKey != "" {
		cfg.API.APIKey = cli.APIKey
	}
	if cli.Provider != "" {
		cfg.API.Provider = cli.Provider
	}
	if cli.BaseURL != "" {
		cfg.API.BaseURL = cli.BaseURL
	}
	if cli.Model != "" {
		cfg.Model.ID = cli.Model
	}
	if cli.LogLevel != "" {
		cfg.Observability.Logging.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Observability.Logging.Format = cli.LogFormat
	}
}
