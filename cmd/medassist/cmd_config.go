package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/elee1766/medassist/src/config"
)

// ConfigCmd inspects configuration
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Print the effective configuration"`
	Path ConfigPathCmd `cmd:"" help:"Print the configuration file locations"`
	Init ConfigInitCmd `cmd:"" help:"Write a default configuration file"`
}

// ConfigShowCmd prints the effective configuration with the API key masked
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	return printConfig(os.Stdout, cfg)
}

func printConfig(w io.Writer, cfg *config.Config) error {
	masked := *cfg
	masked.API.APIKey = config.MaskAPIKey(cfg.API.APIKey)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(masked)
}

// ConfigPathCmd prints where configuration is read from
type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(cli *CLI) error {
	sources := config.DefaultSources()
	if cli.Config != "" {
		sources.Files = append(sources.Files, cli.Config)
	}
	for _, f := range sources.Files {
		fmt.Println(f)
	}
	for _, f := range sources.DotEnv {
		fmt.Println(f)
	}
	fmt.Printf("snapshots: %s\n", config.DefaultSnapshotDir())
	fmt.Printf("log: %s\n", config.DefaultLogPath())
	return nil
}

// ConfigInitCmd writes the defaults to a config file
type ConfigInitCmd struct {
	Path  string `arg:"" optional:"" type:"path" help:"Destination (defaults to the user config file)"`
	Force bool   `help:"Overwrite an existing file"`
}

func (c *ConfigInitCmd) Run(cli *CLI) error {
	path := c.Path
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%w: %s already exists, use --force to overwrite", errUsage, path)
	}

	loader := config.NewLoader(config.DefaultSources())
	if err := loader.SaveFile(config.DefaultConfig(), path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
