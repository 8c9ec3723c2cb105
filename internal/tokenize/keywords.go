package tokenize

import "unicode/utf8"

// ExtractKeywords derives the canonical keyword list for an item from its
// title and content. A token is kept when it is longer than two runes, not a
// stop word, and not purely numeric. First-occurrence order is preserved;
// duplicates are not removed.
func ExtractKeywords(title, content string) []string {
	tokens := Tokenize(title + " " + content)
	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		if IsStopWord(tok) {
			continue
		}
		if isNumeric(tok) {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
