package document

import (
	"html"
	"regexp"
	"sort"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}`)

// Render substitutes {{ key }} placeholders with HTML-escaped values.
// Unknown keys render empty.
func Render(body string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		return html.EscapeString(values[key])
	})
}

// Placeholders lists the distinct keys a template body uses, sorted.
func Placeholders(body string) []string {
	seen := make(map[string]struct{})
	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		seen[m[1]] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
