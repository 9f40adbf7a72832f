package export

import "strings"

// DefaultBaseName is used when a document has no title
const DefaultBaseName = "document"

// DeriveBaseName converts a document title into a safe download base
// name: lower-cased, every non-alphanumeric rune replaced with an
// underscore. Extension is appended by the caller.
func DeriveBaseName(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultBaseName
	}

	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
