package workflow

import (
	"regexp"
	"strings"
)

// photoPlaceholder is the attachment prompt the resident app appends to
// free-text comments.
const photoPlaceholder = "Прикрепите фото:"

var (
	urlPattern        = regexp.MustCompile(`http\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeQuery cleans raw resident free text before classification:
// line breaks become spaces, the photo-attachment placeholder and URL-shaped
// tokens are stripped, and whitespace runs collapse to single spaces.
// Idempotent on already-normalized input.
func NormalizeQuery(query string) string {
	s := strings.ReplaceAll(query, "\n", " ")
	s = strings.ReplaceAll(s, photoPlaceholder, " ")
	s = urlPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
