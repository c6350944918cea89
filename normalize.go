package cssselect

import "strings"

// Normalize lowercases and trims s. The parser applies it to wildcard-
// namespace ("*|tag") tag names and to :nth-* arguments; other tag names are
// only trimmed, and attribute keys are kept as written.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
