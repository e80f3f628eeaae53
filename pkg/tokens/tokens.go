// Package tokens estimates token counts for cleaned file content.
package tokens

import (
	"fmt"
	"regexp"
	"strings"
)

// Counter maps text to an integer token estimate. Implementations are safe for
// concurrent use.
type Counter interface {
	CountTokens(text string) int
}

const (
	AdvancedName = "advanced" // Word runs and single punctuation marks.
	SimpleName   = "simple"   // Whitespace separated fields.
)

// wordOrSymbol matches a run of word characters or one character that is neither a
// word character nor whitespace.
var wordOrSymbol = regexp.MustCompile(`[\p{L}\p{Mn}\p{Nd}\p{Pc}]+|[^\p{L}\p{Mn}\p{Nd}\p{Pc}\s\p{Z}]`)

// Advanced counts identifiers and words as one token each and every punctuation
// character individually.
type Advanced struct{}

// CountTokens implements Counter.
func (Advanced) CountTokens(text string) int {
	return len(wordOrSymbol.FindAllStringIndex(text, -1))
}

// Simple counts whitespace separated fields.
type Simple struct{}

// CountTokens implements Counter.
func (Simple) CountTokens(text string) int {
	return len(strings.Fields(text))
}

// New returns the counter registered under name. An empty name selects Advanced.
func New(name string) (Counter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AdvancedName:
		return Advanced{}, nil
	case SimpleName:
		return Simple{}, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q (want %q or %q)", name, AdvancedName, SimpleName)
	}
}
