package portfolio

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

/*
	Slug helpers
	------------
	- Slugs are derived from the title once, at creation.
	- After that the slug is part of the public URL and never changes.
*/

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9]+`)
	validSlug = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// MakeSlug generates a URL-safe slug from a project title.
// Example: "Diseño Móvil 2024" -> "diseno-movil-2024"
func MakeSlug(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		title,
	)
	if err != nil {
		folded = title
	}

	base := strings.ToLower(strings.TrimSpace(folded))
	base = nonSlug.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "project"
	}
	return base
}

func IsValidSlug(slug string) bool {
	return validSlug.MatchString(slug)
}
