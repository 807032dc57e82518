// Package text provides small text-measurement helpers shared by the
// overview writers. Jurisdiction pages mix Latin script with accented
// place names and non-Latin registry names, so lengths are measured in
// runes, not bytes.
package text

// CountRunes counts Unicode characters in the given text. Multi-byte
// characters count as one each.
func CountRunes(s string) int {
	return len([]rune(s))
}

// TruncateRunes shortens s to at most limit runes, appending suffix
// when truncation happens. It never splits a multi-byte character.
func TruncateRunes(s string, limit int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + suffix
}
