package summary

import "strings"

// Extract normalises a model reply into the stored summary by trimming
// surrounding whitespace. Extract(Extract(x)) == Extract(x).
func Extract(text string) string {
	return strings.TrimSpace(text)
}
