package services

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
)

// GenerateSlug derives a URL-safe identifier from a title.
//
// The title is lower-cased and trimmed, every character outside [a-z0-9],
// whitespace and "-" is dropped, and whitespace runs become single hyphens.
// A non-empty disambiguator is appended after a hyphen. When nothing of the
// title survives, the disambiguator alone is the slug.
//
// Parameters:
//   - title: free text, usually the post title
//   - disambiguator: a random token, may be empty
//
// Returns:
//   - the slug, e.g. "hello-world-3f9a1c2e"
func GenerateSlug(title, disambiguator string) string {
	base := Slugify(title)
	switch {
	case disambiguator == "":
		return base
	case base == "":
		return disambiguator
	default:
		return base + "-" + disambiguator
	}
}

// Slugify normalizes a name without any disambiguator. Category and tag slugs use it.
// Whitespace exposed at the edges by stripping is trimmed as well, so "Hello ?"
// becomes "hello" rather than "hello-".
func Slugify(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSpace(slugDisallowed.ReplaceAllString(s, ""))
	return slugSpaces.ReplaceAllString(s, "-")
}

// RandomToken returns eight lowercase hex characters from a fresh UUID
func RandomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
