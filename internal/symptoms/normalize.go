package symptoms

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC normalization and lowercases text. Phrase
// matching runs against this form.
func Normalize(text string) string {
	return strings.ToLower(norm.NFKC.String(text))
}

// Tokenize lowercases text, strips punctuation and splits on whitespace.
// A hyphen survives only between two letters or digits ("follow-up");
// anywhere else it separates words.
func Tokenize(text string) []string {
	runes := []rune(Normalize(text))

	var b strings.Builder
	b.Grow(len(runes))
	for i, r := range runes {
		switch {
		case r == '-':
			if i > 0 && i < len(runes)-1 && isWordRune(runes[i-1]) && isWordRune(runes[i+1]) {
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
			}
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	return strings.Fields(b.String())
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// window returns the byte range [start, end) of s extended by up to pad
// runes on each side.
func window(s string, start, end, pad int) string {
	from := start
	for n := 0; n < pad && from > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(s[:from])
		from -= size
	}

	to := end
	for n := 0; n < pad && to < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[to:])
		to += size
	}

	return s[from:to]
}
