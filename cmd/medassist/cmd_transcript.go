package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/elee1766/medassist/src/app"
	"github.com/elee1766/medassist/src/conversation"
	"github.com/elee1766/medassist/src/snapshot"
	"github.com/elee1766/medassist/src/theme"
)

// TranscriptCmd prints a saved session
type TranscriptCmd struct {
	File    string `arg:"" optional:"" help:"Snapshot file, relative to the snapshot directory (default medassist_session.json)"`
	NoColor bool   `help:"Disable colored output"`
}

func (c *TranscriptCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	appInstance, err := app.New(cfg, app.Options{
		Logger: createCLILogger(cli.LogLevel, cfg.Observability.Logging.Format),
	})
	if err != nil {
		return err
	}
	defer appInstance.Close()

	if appInstance.Snapshots == nil {
		return errors.New("snapshot.directory is not configured")
	}

	name := c.File
	if name == "" {
		name = snapshot.DefaultFileName
	}
	snap, err := appInstance.Snapshots.Load(name)
	if err != nil {
		return err
	}

	styles := theme.NewStyles(theme.Default)
	if c.NoColor {
		styles = theme.Plain()
	}
	printTranscript(os.Stdout, snap, styles)
	return nil
}

func printTranscript(w io.Writer, snap conversation.Snapshot, styles theme.Styles) {
	fmt.Fprintln(w, styles.Banner.Render(snap.App))
	fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("model %s, saved %s, %d messages",
		snap.Model, snap.SavedAt.Format("2006-01-02 15:04:05 MST"), len(snap.Messages))))

	for _, m := range snap.Messages {
		fmt.Fprintln(w)
		if m.Role == conversation.RoleUser {
			fmt.Fprintf(w, "%s %s\n", styles.UserLabel.Render("You:"), m.Content)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", styles.BotLabel.Render(snap.App+":"), styles.Reply.Render(m.Content))
	}
}
