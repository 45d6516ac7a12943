package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/elee1766/medassist/src/app"
	"github.com/elee1766/medassist/src/chat"
	"github.com/elee1766/medassist/src/config"
)

// PromptCmd represents the single prompt command
type PromptCmd struct {
	Text        []string `arg:"" optional:"" help:"The question to ask"`
	File        string   `short:"f" type:"existingfile" help:"Load the question from a file"`
	Output      string   `short:"o" help:"Output format (text, json)" default:"text" enum:"text,json"`
	Temperature float64  `help:"Override temperature for this prompt (negative keeps the configured value)" default:"-1"`
	MaxTokens   int      `help:"Override max tokens for this prompt"`
}

func (p *PromptCmd) Run(ctx context.Context, cli *CLI) error {
	text, err := p.question()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if p.Temperature >= 0 {
		cfg.Model.Temperature = p.Temperature
	}
	if p.MaxTokens > 0 {
		cfg.Model.MaxTokens = p.MaxTokens
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return err
	}

	// Warn unless asked otherwise, so stderr stays quiet for scripts
	level := cli.LogLevel
	if level == "" {
		level = "warn"
	}
	logger := createCLILogger(level, cfg.Observability.Logging.Format)

	appInstance, err := app.New(cfg, app.Options{Logger: logger, RequireAPIKey: true})
	if err != nil {
		return err
	}
	defer appInstance.Close()

	reply, err := appInstance.Chat.HandleTurn(ctx, chat.DefaultSessionID, text)
	if err != nil {
		return err
	}
	return writeReply(os.Stdout, reply, p.Output)
}

func (p *PromptCmd) question() (string, error) {
	if p.File != "" {
		data, err := os.ReadFile(p.File)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	text := strings.TrimSpace(strings.Join(p.Text, " "))
	if text == "" {
		return "", fmt.Errorf("%w: provide a question or --file", errUsage)
	}
	return text, nil
}

type promptOutput struct {
	Response    string `json:"response"`
	IsEmergency bool   `json:"is_emergency"`
	Error       bool   `json:"error,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// writeReply prints a reply. A failed model call is returned as an error
// after printing so the exit code reflects it.
func writeReply(w io.Writer, reply *chat.Reply, format string) error {
	switch format {
	case "json":
		out := promptOutput{
			Response:    reply.Content,
			IsEmergency: reply.IsEmergency,
			Error:       reply.Error,
			Timestamp:   reply.Timestamp.Format(time.RFC3339),
		}
		if reply.Error {
			out.ErrorKind = reply.ErrorKind.String()
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			return err
		}
	default:
		if !reply.Error {
			fmt.Fprintln(w, reply.Content)
		}
	}

	if reply.Error {
		return fmt.Errorf("%w: %s", reply.ErrorKind.Err(), reply.Content)
	}
	return nil
}
