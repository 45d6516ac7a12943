package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/elee1766/medassist/src/aisdk"
	"github.com/elee1766/medassist/src/app"
)

// ModelsCmd lists models offered by the configured provider
type ModelsCmd struct {
	List   ModelsListCmd   `cmd:"" default:"1" help:"List available models"`
	Search ModelsSearchCmd `cmd:"" help:"Search for models by id or name"`
	Info   ModelsInfoCmd   `cmd:"" help:"Show details for one model"`
}

// ModelsListCmd lists available models
type ModelsListCmd struct {
	Format    string `help:"Output format (table, json)" default:"table" enum:"table,json"`
	WithCosts bool   `help:"Include pricing information"`
}

func (c *ModelsListCmd) Run(ctx context.Context, cli *CLI) error {
	a, err := newModelsApp(cli)
	if err != nil {
		return err
	}

	models, err := a.Models.GetModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	return printModels(os.Stdout, models, c.Format, c.WithCosts)
}

// ModelsSearchCmd searches for models by name
type ModelsSearchCmd struct {
	Query  string `arg:"" help:"Search query"`
	Format string `help:"Output format (table, json)" default:"table" enum:"table,json"`
}

func (c *ModelsSearchCmd) Run(ctx context.Context, cli *CLI) error {
	a, err := newModelsApp(cli)
	if err != nil {
		return err
	}

	models, err := a.Models.GetModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	matches := filterModels(models, c.Query)
	if len(matches) == 0 {
		fmt.Printf("No models found matching '%s'\n", c.Query)
		return nil
	}
	return printModels(os.Stdout, matches, c.Format, false)
}

// ModelsInfoCmd shows one model
type ModelsInfoCmd struct {
	Model string `arg:"" optional:"" help:"Model id or name (defaults to the configured model)"`
}

func (c *ModelsInfoCmd) Run(ctx context.Context, cli *CLI) error {
	a, err := newModelsApp(cli)
	if err != nil {
		return err
	}

	name := c.Model
	if name == "" {
		name = a.Config.Model.ID
	}
	model, err := a.Models.FindModel(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get model info: %w", err)
	}
	return printModelTable(os.Stdout, model)
}

func newModelsApp(cli *CLI) (*app.App, error) {
	cfg, err := loadConfig(cli)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.Options{
		Logger: createCLILogger(cli.LogLevel, cfg.Observability.Logging.Format),
	})
}

func filterModels(models []*aisdk.ModelInfo, query string) []*aisdk.ModelInfo {
	var matches []*aisdk.ModelInfo
	query = strings.ToLower(query)
	for _, model := range models {
		if strings.Contains(strings.ToLower(model.ID), query) ||
			strings.Contains(strings.ToLower(model.Name), query) {
			matches = append(matches, model)
		}
	}
	return matches
}

func printModels(w io.Writer, models []*aisdk.ModelInfo, format string, withCosts bool) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(models)
	case "table":
		return printModelsTable(w, models, withCosts)
	default:
		return fmt.Errorf("%w: invalid format %s", errUsage, format)
	}
}

func printModelsTable(w io.Writer, models []*aisdk.ModelInfo, withCosts bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	if withCosts {
		fmt.Fprintln(tw, "ID\tName\tContext\tPrompt Cost\tCompletion Cost")
		fmt.Fprintln(tw, "---\t----\t-------\t-----------\t---------------")
		for _, model := range models {
			promptCost := "N/A"
			completionCost := "N/A"
			if model.Pricing != nil {
				if model.Pricing.Prompt != "" {
					promptCost = model.Pricing.Prompt
				}
				if model.Pricing.Completion != "" {
					completionCost = model.Pricing.Completion
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				model.ID, model.Name, model.ContextLength, promptCost, completionCost)
		}
		return nil
	}

	fmt.Fprintln(tw, "ID\tName\tContext Length")
	fmt.Fprintln(tw, "---\t----\t--------------")
	for _, model := range models {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", model.ID, model.Name, model.ContextLength)
	}
	return nil
}

func printModelTable(w io.Writer, model *aisdk.ModelInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "ID:\t%s\n", model.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", model.Name)
	fmt.Fprintf(tw, "Description:\t%s\n", model.Description)
	fmt.Fprintf(tw, "Context Length:\t%d\n", model.ContextLength)

	if model.Pricing != nil {
		fmt.Fprintf(tw, "Prompt Cost:\t%s\n", model.Pricing.Prompt)
		fmt.Fprintf(tw, "Completion Cost:\t%s\n", model.Pricing.Completion)
	}
	if model.TopProvider != nil && model.TopProvider.MaxCompletionTokens > 0 {
		fmt.Fprintf(tw, "Max Completion Tokens:\t%d\n", model.TopProvider.MaxCompletionTokens)
	}
	return nil
}
