package team

import (
	"regexp"
	"strings"
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)

	punctuationReplacer = strings.NewReplacer(
		"‘", "'", // left single curly quote
		"’", "'", // right single curly quote
		"“", "'", // left double curly quote
		"”", "'", // right double curly quote
		"–", " ", // en dash
		"—", " ", // em dash
		"-", " ",
		".", "",
	)
)

// NormalizeName is the pure, idempotent cleanup applied to feed names:
// parentheticals removed, curly quotes unified to an apostrophe, dashes
// turned into spaces, periods dropped, whitespace collapsed.
func NormalizeName(raw string) string {
	s := parentheticalRe.ReplaceAllString(raw, "")
	s = punctuationReplacer.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// LooseKey reduces a name to lowercase letters, digits and ampersands,
// the comparison form used for fuzzy lookups.
func LooseKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '&':
			b.WriteRune(r)
		}
	}
	return b.String()
}
