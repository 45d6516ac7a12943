// Package snapshot writes exported sessions to flat JSON files.
package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/elee1766/medassist/src/conversation"
	"github.com/spf13/afero"
)

// DefaultFileName is used when the caller does not pick a file name.
const DefaultFileName = "medassist_session.json"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Writer stores snapshots below a directory of an afero filesystem.
type Writer struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(fs afero.Fs, dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		fs:     fs,
		dir:    dir,
		logger: logger.With("component", "snapshot"),
	}
}

// Dir returns the directory relative names are resolved against.
func (w *Writer) Dir() string {
	return w.dir
}

// Path resolves name to the file it will be written to. Absolute names are
// kept as-is and an empty name maps to DefaultFileName.
func (w *Writer) Path(name string) string {
	if name == "" {
		name = DefaultFileName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.dir, name)
}

// Save writes snap as indented JSON and returns the path written.
func (w *Writer) Save(snap conversation.Snapshot, name string) (string, error) {
	path := w.Path(name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := afero.WriteFile(w.fs, path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	w.logger.Info("snapshot saved", "path", path, "messages", len(snap.Messages))
	return path, nil
}

// Load reads a snapshot previously written by Save.
func (w *Writer) Load(name string) (conversation.Snapshot, error) {
	var snap conversation.Snapshot

	data, err := afero.ReadFile(w.fs, w.Path(name))
	if err != nil {
		return snap, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return snap, nil
}

// FileNameFor builds a file name from a session id and a time, replacing
// characters that are not safe in file names.
func FileNameFor(sessionID string, t time.Time) string {
	safe := strings.Trim(unsafeChars.ReplaceAllString(sessionID, "_"), "._")
	if safe == "" {
		safe = "session"
	}
	return fmt.Sprintf("%s-%s.json", safe, t.UTC().Format("20060102T150405Z"))
}
