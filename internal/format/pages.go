// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// pageMarker matches the marker block written before each page body, up to
// and including the newline after the second rule line.
var pageMarker = regexp.MustCompile(`={80,}\nPAGE \d+\n={80,}\n`)

// SplitPages returns the page bodies of raw with the markers removed. Text
// before the first marker is discarded. Without any marker the whole input
// is a single page.
func SplitPages(raw string) []string {
	parts := pageMarker.Split(raw, -1)
	if len(parts) > 1 {
		return parts[1:]
	}
	return parts
}

// Lines de-paginates raw and splits it into logical lines. Page bodies are
// rejoined with a blank line; empty lines are kept. The text is normalized
// to NFC and CRLF line endings to LF first.
func Lines(raw string) []string {
	raw = norm.NFC.String(raw)
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(strings.Join(SplitPages(raw), "\n\n"), "\n")
}
