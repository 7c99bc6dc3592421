package ai

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var codeFenceRegex = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// StripCodeFence returns the body of the first fenced block, or the trimmed input if there is none.
func StripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := codeFenceRegex.FindStringSubmatch(raw); len(m) > 1 {
		return m[1]
	}
	return raw
}

// ExtractJSONObject returns the span from the first '{' to the last '}' of raw,
// inclusive. Surrounding prose and fence markers fall outside the span. ok is
// false when there is no such span; the span itself is not validated.
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// TruncateRunes cuts s to at most n runes without splitting a multi-byte character.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
