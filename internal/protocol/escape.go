package protocol

import "strings"

// quoteEntity replaces '"' in every string field sent to the host.
const quoteEntity = "&quot;"

// Escape replaces double quotes with the &quot; entity.
func Escape(s string) string {
	return strings.ReplaceAll(s, `"`, quoteEntity)
}

// Unescape reverses Escape. Text that already contained the literal
// "&quot;" before escaping comes back as '"'; the two are indistinguishable
// on the wire.
func Unescape(s string) string {
	return strings.ReplaceAll(s, quoteEntity, `"`)
}
