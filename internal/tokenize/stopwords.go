package tokenize

// stopWords covers common function words in English and Chinese. Terms in
// this set are excluded from keyword extraction.
var stopWords = map[string]struct{}{
	// English
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "have": {}, "this": {},
	"that": {}, "with": {}, "from": {}, "they": {}, "will": {}, "would": {},
	"there": {}, "their": {}, "what": {}, "about": {}, "which": {},
	"when": {}, "were": {}, "been": {}, "more": {}, "your": {}, "some": {},
	"them": {}, "then": {}, "than": {}, "into": {}, "only": {}, "over": {},
	"such": {}, "very": {}, "also": {}, "just": {}, "where": {}, "most": {},
	"other": {}, "these": {}, "those": {}, "could": {}, "should": {},

	// Chinese
	"的": {}, "了": {}, "在": {}, "是": {}, "我": {}, "有": {}, "和": {},
	"就": {}, "不": {}, "人": {}, "都": {}, "一": {}, "上": {}, "也": {},
	"很": {}, "到": {}, "说": {}, "要": {}, "去": {}, "你": {}, "会": {},
	"着": {}, "看": {}, "好": {}, "这": {}, "那": {}, "他": {}, "她": {},
	"它": {}, "们": {}, "个": {}, "与": {}, "或": {}, "被": {}, "把": {},
}

// IsStopWord reports whether term is a known English or Chinese function word.
func IsStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}
