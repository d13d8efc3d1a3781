// Package htmlsanitize detects markup in user-supplied text. Names, types
// and descriptions are plain text on the wire and are stored as submitted,
// so values carrying markup are rejected rather than rewritten.
package htmlsanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag; script and style bodies are dropped entirely.
var strict = bluemonday.StrictPolicy()

// HasMarkup reports whether the strict policy would change s. Bare
// ampersands, comparisons and already-escaped entities are plain text.
func HasMarkup(s string) bool {
	if s == "" {
		return false
	}
	return html.UnescapeString(strict.Sanitize(s)) != html.UnescapeString(s)
}
