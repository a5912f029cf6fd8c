package runtime

import "regexp"

// placeholderPattern matches double-brace tokens like {{user_input}}.
// Inner whitespace is tolerated; identifiers follow Go naming rules.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Resolve substitutes each placeholder with the corresponding binding.
// Unknown placeholders are left verbatim: a missing binding is not an
// error, it just passes the token through to the backend unchanged.
// Deterministic and side-effect free.
func Resolve(template string, bindings map[string]string) string {
	if len(bindings) == 0 {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := bindings[name]; ok {
			return value
		}
		return match
	})
}
