package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/elee1766/medassist/src/app"
	"github.com/elee1766/medassist/src/chat"
	"github.com/elee1766/medassist/src/snapshot"
	"github.com/elee1766/medassist/src/theme"
)

const welcomeMessage = "Hello! I'm MedAssist AI.\n" +
	"I can help you with:\n" +
	"- Understanding symptoms and medical conditions\n" +
	"- Explaining medications and side effects\n" +
	"- General wellness and preventive care\n" +
	"- Guidance on when to seek professional help\n" +
	"I'm an AI assistant, not a doctor. Always consult a licensed healthcare professional for personal medical decisions.\n" +
	"How can I help you today?"

// ChatCmd runs the interactive chat
type ChatCmd struct {
	Session string `help:"Session id (random by default)"`
	NoColor bool   `help:"Disable colored output"`
}

func (c *ChatCmd) Run(ctx context.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	logger, closeLog := createChatLogger(cfg.Observability.Logging.Level)
	defer closeLog()
	appInstance, err := app.New(cfg, app.Options{Logger: logger, RequireAPIKey: true})
	if err != nil {
		return err
	}
	defer appInstance.Close()
	appInstance.Start(ctx)

	sessionID := c.Session
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	styles := theme.NewStyles(theme.Default)
	if c.NoColor {
		styles = theme.Plain()
	}

	r := &repl{
		service:   appInstance.Chat,
		sessionID: sessionID,
		in:        os.Stdin,
		out:       os.Stdout,
		styles:    styles,
		appName:   cfg.Session.AppName,
		model:     appInstance.Provider.Model(),
		maxTurns:  appInstance.Store.MaxTurns(),
	}
	if appInstance.Snapshots != nil {
		r.snapshotDir = appInstance.Snapshots.Dir()
	}
	return r.run(ctx)
}

// repl reads user lines and prints replies until exit, EOF or cancellation.
type repl struct {
	service   *chat.Service
	sessionID string
	in        io.Reader
	out       io.Writer
	styles    theme.Styles
	appName   string

	model       string
	maxTurns    int
	snapshotDir string
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, r.styles.Banner.Render(r.appName+", CLI mode"))
	fmt.Fprintln(r.out, r.styles.Muted.Render("Type 'exit' to quit, '/reset' to start over, '/save [file]' to save the session."))
	if details := r.details(); details != "" {
		fmt.Fprintln(r.out, r.styles.Muted.Render(details))
	}
	fmt.Fprintln(r.out)

	if _, err := r.service.Seed(ctx, r.sessionID, welcomeMessage); err != nil {
		return err
	}
	fmt.Fprintln(r.out, welcomeMessage)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.out, "\n"+r.styles.UserLabel.Render("You:")+" ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out, "\n\nSession ended by user.")
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out, "\nSession ended. Goodbye!")
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if done := r.handleLine(ctx, line); done {
			fmt.Fprintln(r.out, "\nSession ended. Goodbye!")
			return nil
		}
	}
}

// details describes the model, the history bound and the snapshot directory.
func (r *repl) details() string {
	var parts []string
	if r.model != "" {
		parts = append(parts, "Model: "+r.model)
	}
	if r.maxTurns > 0 {
		parts = append(parts, fmt.Sprintf("keeping the last %d turns", r.maxTurns))
	}
	if r.snapshotDir != "" {
		parts = append(parts, "snapshots in "+r.snapshotDir)
	}
	return strings.Join(parts, ", ")
}

// handleLine processes one input line and reports whether the session ended.
func (r *repl) handleLine(ctx context.Context, line string) bool {
	lower := strings.ToLower(line)
	switch {
	case lower == "exit" || lower == "quit":
		return true
	case lower == "/reset":
		r.service.ResetSession(r.sessionID)
		fmt.Fprintln(r.out, r.styles.Muted.Render("Conversation cleared."))
		return false
	case lower == "/save" || strings.HasPrefix(lower, "/save "):
		name := strings.TrimSpace(line[len("/save"):])
		if name == "" {
			name = snapshot.DefaultFileName
		}
		path, err := r.service.SaveSnapshot(r.sessionID, name)
		if err != nil {
			fmt.Fprintln(r.out, r.styles.Error.Render("Could not save session: "+err.Error()))
			return false
		}
		fmt.Fprintln(r.out, r.styles.Muted.Render("Session saved to "+path))
		return false
	}

	reply, err := r.service.HandleTurn(ctx, r.sessionID, line)
	if err != nil {
		fmt.Fprintln(r.out, r.styles.Error.Render("Unexpected error: "+err.Error()))
		return false
	}

	switch {
	case reply.IsEmergency:
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.styles.Emergency.Render(reply.Content))
	case reply.Error:
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.styles.Error.Render("Error: "+reply.Content))
	default:
		fmt.Fprintf(r.out, "\n%s %s\n", r.styles.BotLabel.Render(r.appName+":"), r.styles.Reply.Render(reply.Content))
	}
	return false
}
