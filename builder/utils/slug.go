package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugRegex matches everything that is not a lowercase ascii letter, digit or hyphen
var slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)

const maxSlugLen = 100

// Slugify converts a title to a URL and filename safe slug. Diacritics are
// folded ("Café" -> "cafe").
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	slug := strings.ToLower(folded)
	slug = strings.Join(strings.Fields(slug), "-")
	slug = slugRegex.ReplaceAllString(slug, "")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}
