package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dotless ı and a few ligatures have no decomposition, so they are mapped by hand.
var asciiExtras = strings.NewReplacer("ı", "i", "ß", "ss", "æ", "ae", "ø", "o", "Ø", "O")

// FoldASCII strips diacritics: "Çalışma Şeması" -> "Calisma Semasi".
func FoldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, asciiExtras.Replace(s))
	if err != nil {
		return s
	}
	return out
}

// CollapseSpaces trims s and joins its fields with single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes cuts s to at most n runes and appends an ellipsis when cut.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
