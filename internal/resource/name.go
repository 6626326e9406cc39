// Package resource maps catalog entries to their icon assets. Icon files
// are addressed by canonical resource names derived from display names.
package resource

import "strings"

// ToResourceName derives the canonical icon name for a display name:
// lowercase, spaces become hyphens, and quote and colon characters are
// stripped. The derivation is idempotent, e.g. "The Huntress" and
// "the-huntress" both map to "the-huntress".
func ToResourceName(name string) string {
	lowered := strings.ToLower(name)
	replacer := strings.NewReplacer(
		" ", "-",
		`"`, "",
		"'", "",
		":", "",
	)
	return replacer.Replace(lowered)
}
