package recognition

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics strips diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SanitizeLabel canonicalizes any caller-supplied label into a safe store
// key and filename: diacritics removed, lowercased, anything outside
// [a-z0-9._-] replaced with a dash. Path separators never survive, so a
// sanitized label cannot escape the store or archive directory. Returns ""
// for input that leaves nothing usable behind.
func SanitizeLabel(s string) string {
	s = removeDiacritics(s)
	s = strings.ToLower(s)

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	label := strings.Trim(b.String(), "-.")
	if strings.Trim(label, "-._") == "" {
		return ""
	}
	return label
}

// LabelFromFilename derives the identity label from an uploaded filename:
// path stripped, extension stripped, then sanitized via SanitizeLabel.
func LabelFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return SanitizeLabel(name)
}
