package view

import (
	"html/template"
	"strings"
	"unicode/utf8"
)

// DescriptionLimit is the number of characters of a description shown on a
// coupon card.
const DescriptionLimit = 200

// Sanitize escapes untrusted text for inclusion in HTML. The result is
// marked safe so the template engine does not escape it a second time.
func Sanitize(s string) template.HTML {
	return template.HTML(template.HTMLEscapeString(s))
}

// Truncate shortens s to at most limit characters, appending "..." when
// anything was cut. It never splits a multi-byte character.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	b.WriteString("...")
	return b.String()
}

// SanitizeAndTruncate truncates first so an entity is never cut in half.
func SanitizeAndTruncate(s string, limit int) template.HTML {
	return Sanitize(Truncate(s, limit))
}
