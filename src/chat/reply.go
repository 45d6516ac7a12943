package chat

import (
	"time"

	"github.com/elee1766/medassist/src/provider"
)

// Reply is the outcome of one turn.
type Reply struct {
	Content     string
	IsEmergency bool
	// Error is set when the model call failed; Content then explains why.
	Error     bool
	ErrorKind provider.ErrorKind
	Timestamp time.Time
}
