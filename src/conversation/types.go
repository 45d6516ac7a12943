package conversation

import (
	"errors"
	"time"
)

// DefaultMaxTurns is the number of user/assistant pairs kept per session.
const DefaultMaxTurns = 20

// ErrEmptySession is returned when a prompt is requested for a session
// without messages.
var ErrEmptySession = errors.New("session has no messages")

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single entry in a session history. Messages are values and are
// never modified after being appended.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// session is owned by Store and never handed out directly.
type session struct {
	id           string
	messages     []Message
	createdAt    time.Time
	lastActivity time.Time
}

// Snapshot is an exported copy of a session, suitable for writing to disk.
type Snapshot struct {
	App      string            `json:"app"`
	Model    string            `json:"model"`
	SavedAt  time.Time         `json:"saved_at"`
	Messages []SnapshotMessage `json:"messages"`
}

// SnapshotMessage is the persisted form of a Message.
type SnapshotMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
