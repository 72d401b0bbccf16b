package services

import (
	"regexp"
	"strings"
)

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL path segment from an artist and title, artist
// first. Each part is lower-cased with runs of non-alphanumerics collapsed
// to single hyphens, so "Daft Punk" + "One More Time" becomes
// "daft-punk-one-more-time". Uniqueness is the store's concern, not ours.
func Slugify(artist, title string) string {
	parts := make([]string, 0, 2)
	if s := slugField(artist); s != "" {
		parts = append(parts, s)
	}
	if s := slugField(title); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "-")
}

func slugField(s string) string {
	s = strings.ToLower(s)
	s = slugStripPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
