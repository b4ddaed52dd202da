// Package labels turns raw spreadsheet cell text into normalized series
// names, slugs and quarter dates. Every function here is pure and total.
package labels

import (
	"regexp"
	"strings"
)

var noteMarker = regexp.MustCompile(`(?i)\[note\s*\d+\]`)

// NormalizeSeriesName strips "[note N]" footnote markers and collapses
// whitespace (including embedded newlines) to single spaces.
func NormalizeSeriesName(raw string) string {
	s := noteMarker.ReplaceAllString(raw, "")
	return strings.Join(strings.Fields(s), " ")
}

// Slugify lowercases name and replaces each run of characters outside
// [a-z0-9] with one underscore, trimming underscores at both ends.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	return b.String()
}
