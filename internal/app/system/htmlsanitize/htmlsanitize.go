// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied text before
// it is stored. Abstracts, feedback, announcements, and FAQ answers accept
// basic formatting; everything else (names, titles, notification messages)
// goes through Plain.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps user-generated-content markup (paragraphs, lists, links,
// code blocks) and removes scripts, event handlers, and javascript: URLs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// Plain strips all markup, leaving text content only.
func Plain(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strict.Sanitize(s))
}

// IsPlainText reports whether the string contains no markup at all.
func IsPlainText(s string) bool {
	return strict.Sanitize(s) == s
}
