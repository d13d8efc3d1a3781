// Package normalize canonicalizes user input before validation and storage.
package normalize

import "strings"

// Text trims surrounding whitespace. Interior spacing, case and every
// other character are kept as submitted.
func Text(s string) string {
	return strings.TrimSpace(s)
}
