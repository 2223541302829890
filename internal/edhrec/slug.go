package edhrec

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^\w\s]`)

// Slugify converts a commander's display name to EDHREC's URL format:
// punctuation stripped, lowercased, spaces replaced with hyphens.
// Example: "Mr. Orfeo, the Boulder" -> "mr-orfeo-the-boulder".
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(name, "")
	slug = strings.ToLower(slug)
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}
