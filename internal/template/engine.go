// Package template fills {{name}} placeholders in prompt templates.
package template

import (
	"regexp"
	"strings"
)

// A placeholder never spans lines; the name inside the braces is trimmed.
var placeholderRegex = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Render replaces every placeholder with its value from vars, or "" when the
// name is unknown. Substituted values are not scanned again.
func Render(body string, vars map[string]string) string {
	return placeholderRegex.ReplaceAllStringFunc(body, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		return vars[name]
	})
}

// Placeholders lists the distinct placeholder names in body in order of first use.
func Placeholders(body string) []string {
	matches := placeholderRegex.FindAllStringSubmatch(body, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
