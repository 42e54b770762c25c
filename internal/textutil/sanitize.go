package textutil

import (
	"strings"
	"unicode"
)

// Titles become output file names, so the cap keeps paths comfortably
// short even with an extension appended.
const maxFileNameRunes = 80

// SanitizeFileName reduces a title to a filesystem-safe base name.
// Letters, digits, spaces, hyphens, and underscores survive; everything
// else is dropped. The result is capped at 80 runes and trimmed of
// surrounding whitespace. When nothing survives, fallback is returned.
func SanitizeFileName(title, fallback string) string {
	kept := make([]rune, 0, len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			kept = append(kept, r)
		}
	}
	if len(kept) > maxFileNameRunes {
		kept = kept[:maxFileNameRunes]
	}
	name := strings.TrimSpace(string(kept))
	if name == "" {
		return fallback
	}
	return name
}

// ShortID returns the leading 16 characters of a content ID, the length
// used for file name fallbacks and compact log fields.
func ShortID(contentID string) string {
	if len(contentID) <= 16 {
		return contentID
	}
	return contentID[:16]
}
