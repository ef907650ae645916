// Package parser turns the raw text completion returned by the language
// model into structured flashcard records.
package parser

import (
	"regexp"
	"strings"
)

const (
	frontMarker = "Front:"
	backMarker  = "Back:"
)

// Card is one parsed front/back pair.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

var (
	bannerRe = regexp.MustCompile(`(?i)^\s*\*{0,2}flashcards:?\*{0,2}\s*$`)
	// The model sometimes wraps the literal words Front/Back in markdown bold.
	boldMarkerRe = regexp.MustCompile(`\*\*(Front|Back)\*\*`)
	blankLineRe  = regexp.MustCompile(`\n\s*\n`)
)

// Parse extracts an ordered list of cards from a completion blob.
//
// Entries are separated by one or more blank lines. Within an entry the
// front is the text after "Front:" up to a following "Back:" marker or the
// end of the entry, and the back likewise after "Back:". Entries missing
// either marker are skipped. Degenerate input yields an empty slice, never
// an error.
func Parse(blob string) []Card {
	text := normalize(blob)

	var cards []Card
	for _, entry := range blankLineRe.Split(text, -1) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		front, ok := extract(entry, frontMarker, backMarker)
		if !ok {
			continue
		}
		back, ok := extract(entry, backMarker, frontMarker)
		if !ok {
			continue
		}
		cards = append(cards, Card{Front: front, Back: back})
	}
	return cards
}

// normalize strips the "**Flashcards:**" banner line and any markdown bold
// wrapping the Front/Back markers.
func normalize(blob string) string {
	text := boldMarkerRe.ReplaceAllString(blob, "$1")

	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		first := 0
		for first < len(lines) && strings.TrimSpace(lines[first]) == "" {
			first++
		}
		if first < len(lines) && bannerRe.MatchString(lines[first]) {
			lines = lines[first+1:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extract returns the text following marker up to the next occurrence of
// stop (or the end of the entry). Content may span multiple lines.
func extract(entry, marker, stop string) (string, bool) {
	start := strings.Index(entry, marker)
	if start < 0 {
		return "", false
	}
	rest := entry[start+len(marker):]
	if end := strings.Index(rest, stop); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}
