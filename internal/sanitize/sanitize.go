// Package sanitize scrubs rich-text item descriptions. Descriptions are
// authored with a small inline formatting vocabulary; everything else,
// script tags included, is stripped before the text is stored or rendered.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// richText keeps only the inline formatting tags descriptions may
	// carry. No attributes survive on any of them.
	richText = bluemonday.NewPolicy().
			AllowElements("b", "i", "u", "br", "p", "span")

	// plainText removes all markup.
	plainText = bluemonday.StrictPolicy()
)

// RichText removes everything outside the allowed formatting vocabulary
// from an item description.
func RichText(s string) string {
	return richText.Sanitize(s)
}

// Strip reduces a description to plain text, for list views and exports
// that render without markup.
func Strip(s string) string {
	return strings.TrimSpace(plainText.Sanitize(s))
}
