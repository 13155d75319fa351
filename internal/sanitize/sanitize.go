// Package sanitize escapes untrusted text before it is interpolated
// into generated markup. Tag names and scraped display names are
// user- or page-controlled and must never reach markup raw.
package sanitize

import "strings"

var replacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Sanitize escapes the five HTML-significant characters.
func Sanitize(s string) string {
	return replacer.Replace(s)
}
