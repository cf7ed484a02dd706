package markup

import "strings"

// EscapeMarkdown makes s render as literal text by escaping every open
// bracket. Backslashes are left alone, so a backslash that already sits in
// front of a bracket (e.g. `Hello\[]World`) or a doubled backslash does not
// survive a round trip through Tokenize.
func EscapeMarkdown(s string) string {
	if strings.IndexByte(s, openChar) < 0 {
		return s
	}
	return strings.ReplaceAll(s, "[", `\[`)
}
