package utils

import "github.com/microcosm-cc/bluemonday"

var (
	sanitizer       = bluemonday.UGCPolicy()
	strictSanitizer = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS; used for note bodies where
// basic markup is allowed.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizeStrict strips all markup; used for titles, chat input echoed back to
// clients, and text handed to the speech service.
func SanitizeStrict(input string) string {
	return strictSanitizer.Sanitize(input)
}
