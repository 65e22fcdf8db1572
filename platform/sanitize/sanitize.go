// Package sanitize cleans user-provided text before it is stored.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	spaceRegex   = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", "\"",
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// StripHTML removes markup, decodes the common entities and strips again so
// encoded tags do not survive.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text strips markup and collapses runs of whitespace to a single space.
// Use it for single-line fields such as names and lead sources.
func Text(s string) string {
	return spaceRegex.ReplaceAllString(StripHTML(s), " ")
}

// OptionalText sanitizes s and returns nil when nothing is left.
func OptionalText(s string) *string {
	result := Text(s)
	if result == "" {
		return nil
	}
	return &result
}
