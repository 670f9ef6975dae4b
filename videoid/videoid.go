// Package videoid normalizes user-supplied video references into
// canonical 11-character YouTube video identifiers.
package videoid

import (
	"regexp"
	"strings"
)

// urlChars marks input that must be treated as a URL rather than a bare ID.
var urlChars = regexp.MustCompile(`[?&=/]`)

// Recognized URL shapes, tried in order. Each pattern captures the
// 11-character identifier.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/|m\.youtube\.com/watch\?v=)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?.*[&?]v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
}

// Extract returns the canonical video ID embedded in a URL, or the
// trimmed input unchanged when it is already a bare identifier or when
// no recognized shape matches. It never fails; unrecognized input is
// passed through for the caller to attempt.
func Extract(raw string) string {
	raw = strings.TrimSpace(raw)

	if !urlChars.MatchString(raw) {
		return raw
	}

	for _, p := range patterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
	}

	return raw
}

// Item pairs a canonical identifier with the original input it came
// from, kept for display in responses.
type Item struct {
	ID     string
	Source string
}

// NormalizeBatch merges the three optional request lists (unified,
// id-only, url-only, in that order), normalizes every entry, and
// de-duplicates by canonical ID while preserving first-occurrence
// order. Empty lists contribute nothing.
func NormalizeBatch(videos, videoIDs, videoURLs []string) []Item {
	var merged []Item
	for _, list := range [][]string{videos, videoIDs, videoURLs} {
		for _, entry := range list {
			merged = append(merged, Item{ID: Extract(entry), Source: entry})
		}
	}

	seen := make(map[string]struct{}, len(merged))
	unique := make([]Item, 0, len(merged))
	for _, item := range merged {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		unique = append(unique, item)
	}

	return unique
}
