package snapshot

import (
	"testing"
	"time"

	"github.com/elee1766/medassist/src/conversation"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesSnapshotFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/state/medassist", nil)

	snap := conversation.Snapshot{
		App:     "MedAssist AI",
		Model:   "google/gemini-2.5-flash",
		SavedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Messages: []conversation.SnapshotMessage{
			{Role: conversation.RoleUser, Content: "What is ibuprofen used for?"},
			{Role: conversation.RoleAssistant, Content: "Pain and fever."},
		},
	}

	path, err := w.Save(snap, "")
	require.NoError(t, err)
	assert.Equal(t, "/state/medassist/medassist_session.json", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"app": "MedAssist AI",
		"model": "google/gemini-2.5-flash",
		"saved_at": "2025-03-01T12:00:00Z",
		"messages": [
			{"role": "user", "content": "What is ibuprofen used for?"},
			{"role": "assistant", "content": "Pain and fever."}
		]
	}`, string(data))

	loaded, err := w.Load("")
	require.NoError(t, err)
	assert.Equal(t, snap.App, loaded.App)
	assert.Equal(t, snap.Messages, loaded.Messages)
	assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))
}

func TestSavePaths(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/data", nil)

	path, err := w.Save(conversation.Snapshot{Messages: []conversation.SnapshotMessage{}}, "/tmp/out/chat.json")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out/chat.json", path)

	exists, err := afero.Exists(fs, "/tmp/out/chat.json")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, "/data/nested/x.json", w.Path("nested/x.json"))
}

func TestLoadMissing(t *testing.T) {
	w := NewWriter(afero.NewMemMapFs(), "/data", nil)
	_, err := w.Load("nope.json")
	assert.Error(t, err)
}

func TestFileNameFor(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 30, 5, 0, time.UTC)

	tests := []struct {
		id   string
		want string
	}{
		{"default", "default-20250301T123005Z.json"},
		{"../../etc/passwd", "etc_passwd-20250301T123005Z.json"},
		{"user 42", "user_42-20250301T123005Z.json"},
		{"", "session-20250301T123005Z.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileNameFor(tt.id, ts), tt.id)
	}
}
