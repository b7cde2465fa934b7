package utils

import "github.com/microcosm-cc/bluemonday"

// Two sanitization tiers: post and comment bodies keep a safe UGC subset
// of HTML, titles are stripped down to plain text.
var (
	contentPolicy = bluemonday.UGCPolicy()
	titlePolicy   = bluemonday.StrictPolicy()
)

// Sanitize cleans a user-supplied body, keeping harmless markup.
func Sanitize(input string) string {
	return contentPolicy.Sanitize(input)
}

// SanitizeTitle removes all markup from a title.
func SanitizeTitle(input string) string {
	return titlePolicy.Sanitize(input)
}
