// Package safety implements the keyword gate that short-circuits emergencies
// before anything is stored or sent to a model.
package safety

import "strings"

// EmergencyMessage is returned verbatim whenever a screen matches.
const EmergencyMessage = "🚨 **EMERGENCY DETECTED**\n\n" +
	"Please call 911 immediately or go to your nearest emergency room. Do not wait.\n\n" +
	"*This is an automated emergency detection - please seek immediate medical attention.*"

// DefaultPhrases is the curated emergency phrase list. Entries are lowercase.
var DefaultPhrases = []string{
	"chest pain",
	"heart attack",
	"can't breathe",
	"cannot breathe",
	"difficulty breathing",
	"stroke",
	"unconscious",
	"unresponsive",
	"severe bleeding",
	"overdose",
	"suicide",
	"kill myself",
	"not breathing",
	"seizure",
	"anaphylaxis",
}

// Screen matches free text against a fixed set of phrases.
// A Screen is immutable after construction and safe for concurrent use.
type Screen struct {
	phrases []string
}

// NewScreen creates a screen over the given phrases. Phrases are lowercased
// and blank entries dropped. With no phrases the default list is used.
func NewScreen(phrases ...string) *Screen {
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return &Screen{phrases: normalized}
}

// Check reports whether text contains any phrase, ignoring case.
func (s *Screen) Check(text string) bool {
	_, ok := s.Match(text)
	return ok
}

// Match returns the first phrase found in text.
func (s *Screen) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range s.phrases {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}

// Phrases returns a copy of the configured phrases.
func (s *Screen) Phrases() []string {
	out := make([]string, len(s.phrases))
	copy(out, s.phrases)
	return out
}
