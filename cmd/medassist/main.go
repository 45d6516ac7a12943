package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	Config    string `short:"c" type:"path" help:"Extra config file, applied after the default locations"`
	APIKey    string `help:"API key (overrides config and environment)"`
	Provider  string `help:"Provider (openrouter, openai, local)"`
	BaseURL   string `help:"Custom API base URL"`
	Model     string `short:"m" help:"Model id"`
	LogLevel  string `help:"Log level (debug, info, warn, error)"`
	LogFormat string `help:"Log format (text, json)"`

	// Chat is the default command
	Chat    ChatCmd   `cmd:"" default:"withargs" help:"Start an interactive chat (default)"`
	Prompt  PromptCmd `cmd:"" help:"Ask a single question"`
	Serve   ServeCmd  `cmd:"" help:"Serve the chat API over HTTP"`
	Models  ModelsCmd `cmd:"" help:"List and search available models"`
	Configs ConfigCmd `cmd:"" name:"config" help:"Show or initialize configuration"`

	Transcript TranscriptCmd `cmd:"" help:"Print a saved session"`
}

func main() {
	var cli CLI

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx := kong.Parse(&cli,
		kong.Name("medassist"),
		kong.Description("MedAssist AI: a medical information assistant backed by a hosted language model"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(sigCtx, (*context.Context)(nil)),
	)

	err := ctx.Run(&cli)
	if err != nil {
		stop()
		FatalError(createCLILogger(cli.LogLevel, cli.LogFormat), err)
	}
}
