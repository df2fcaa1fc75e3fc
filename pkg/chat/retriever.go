package chat

import (
	"regexp"
	"sort"
	"strings"
)

// Snippet is one retrieved context window from the anonymized document.
type Snippet struct {
	Text     string
	Position int
	Keyword  string
}

var (
	wordPattern        = regexp.MustCompile(`\b\w+\b`)
	placeholderPattern = regexp.MustCompile(`\[[\w_]+\]`)

	stopWords = map[string]bool{
		"what": true, "where": true, "when": true, "who": true, "why": true,
		"how": true, "is": true, "are": true, "was": true, "were": true,
		"the": true, "a": true, "an": true, "and": true, "or": true,
		"but": true, "in": true, "on": true, "at": true, "to": true,
		"for": true, "of": true, "with": true, "by": true, "from": true,
		"about": true, "this": true, "that": true, "these": true,
		"those": true, "can": true, "could": true, "will": true,
		"would": true, "should": true, "may": true, "might": true,
		"do": true, "does": true, "did": true, "has": true, "have": true,
		"had": true, "be": true, "been": true, "being": true, "me": true,
		"you": true, "it": true,
	}
)

// Retriever finds query-relevant windows in anonymized text by keyword
// match. It is deliberately lexical: the assistant is context-bounded and
// must not ship document content to an external model for embedding.
type Retriever struct {
	contextWindow int
	topK          int
}

func NewRetriever(contextWindow, topK int) *Retriever {
	if contextWindow <= 0 {
		contextWindow = 200
	}
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{contextWindow: contextWindow, topK: topK}
}

// Retrieve returns up to topK non-overlapping snippets around keyword hits,
// in document order.
func (r *Retriever) Retrieve(document, query string) []Snippet {
	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return nil
	}

	docLower := strings.ToLower(document)
	var snippets []Snippet

	for _, keyword := range keywords {
		kwLower := strings.ToLower(keyword)
		offset := 0
		for {
			pos := strings.Index(docLower[offset:], kwLower)
			if pos == -1 {
				break
			}
			pos += offset

			start := pos - r.contextWindow
			if start < 0 {
				start = 0
			}
			end := pos + len(keyword) + r.contextWindow
			if end > len(document) {
				end = len(document)
			}

			text := document[start:end]
			if start > 0 {
				text = "..." + text
			}
			if end < len(document) {
				text = text + "..."
			}

			snippets = append(snippets, Snippet{
				Text:     text,
				Position: pos,
				Keyword:  keyword,
			})
			offset = pos + len(keyword)
		}
	}

	sort.Slice(snippets, func(i, j int) bool {
		return snippets[i].Position < snippets[j].Position
	})

	// Drop windows that overlap an earlier hit.
	filtered := snippets[:0]
	lastEnd := -1
	for _, s := range snippets {
		if s.Position > lastEnd {
			filtered = append(filtered, s)
			lastEnd = s.Position + r.contextWindow
		}
	}

	if len(filtered) > r.topK {
		filtered = filtered[:r.topK]
	}
	return filtered
}

// ExtractKeywords pulls meaningful terms from a query: stop-word filtered
// words longer than two characters, plus any placeholder tokens verbatim so
// users can ask about [PERSON_1] directly.
func ExtractKeywords(query string) []string {
	var keywords []string
	for _, word := range wordPattern.FindAllString(strings.ToLower(query), -1) {
		if len(word) > 2 && !stopWords[word] {
			keywords = append(keywords, word)
		}
	}
	keywords = append(keywords, placeholderPattern.FindAllString(query, -1)...)
	return keywords
}
