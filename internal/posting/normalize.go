package posting

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalizeName trims and title-cases free-form names (company, location) so
// listings filter consistently regardless of how posters typed them. A fresh
// caser per call: cases.Caser is stateful and not safe for concurrent use.
func normalizeName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	return cases.Title(language.Und).String(s)
}

// normalizeCategory lower-cases category slugs.
func normalizeCategory(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
