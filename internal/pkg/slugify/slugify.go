package slugify

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	invalidChars    = regexp.MustCompile(`[^a-z0-9\s-]`)
	hyphenCollapser = regexp.MustCompile(`[\s-]+`)
)

// Make derives a URL-safe slug from a title: transliterate to ASCII,
// lowercase, strip everything but alphanumerics, collapse whitespace and
// hyphen runs to single hyphens.
func Make(title string) string {
	s := unidecode.Unidecode(title)
	s = strings.ToLower(s)
	s = invalidChars.ReplaceAllString(s, "")
	s = hyphenCollapser.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValid reports whether s already has canonical slug shape.
func IsValid(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}
