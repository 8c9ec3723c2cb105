// Package tokenize provides text normalization, tokenization, keyword
// extraction, and term-distance helpers for the search engine.
package tokenize

import "strings"

// Tokenize lower-cases text, replaces every character that is not a Latin
// letter, digit, whitespace, or CJK ideograph with a space, and splits on
// whitespace runs. CJK sequences carry no word boundaries, so they are kept
// as-is without further segmentation.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if isTokenRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	case isCJK(r):
		return true
	}
	return false
}

// isCJK reports whether r is a CJK unified ideograph.
func isCJK(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FA5
}
