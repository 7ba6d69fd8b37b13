package domain

import (
	"strings"
)

// NormalizeText lowercases s, collapses every whitespace run to one space and trims it.
// Both the stored search index and incoming queries go through it.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var lyricsReplacer = strings.NewReplacer(
	"<slide>", "\n\n",
	"<BR>", "\n",
)

// RenderLyrics turns raw slide markup into plain text: a blank line between
// slides and a newline per <BR>.
func RenderLyrics(raw string) string {
	return lyricsReplacer.Replace(raw)
}
