package chat

import (
	"fmt"
	"strings"
)

// ComposeAnswer builds the assistant reply from retrieved snippets and the
// set of entity types present in the document. It only ever sees anonymized
// content and type names, never original values.
func ComposeAnswer(query string, snippets []Snippet, entityTypes []string) string {
	if len(snippets) == 0 {
		return "I couldn't find anything related to your question in the document. " +
			"Try different keywords, or refer to placeholders like [PERSON_1] directly."
	}

	var b strings.Builder
	b.WriteString("Here is what the anonymized document says about that:\n")
	for i, s := range snippets {
		fmt.Fprintf(&b, "\nContext %d:\n%s\n", i+1, s.Text)
	}
	if len(entityTypes) > 0 {
		fmt.Fprintf(&b, "\nEntity types present in this document: %s.", strings.Join(entityTypes, ", "))
	}
	return b.String()
}

// Suggestions derives candidate questions from the detected entity types.
func Suggestions(entityTypes []string) []string {
	suggestions := []string{
		"What is this document about?",
		"Summarize the main points",
	}

	present := make(map[string]bool, len(entityTypes))
	for _, t := range entityTypes {
		present[t] = true
	}

	if present["PERSON"] {
		suggestions = append(suggestions,
			"Who are the people mentioned?",
			"What is [PERSON_1]'s role?")
	}
	if present["ORG"] {
		suggestions = append(suggestions, "Which organizations are mentioned?")
	}
	if present["EMAIL"] || present["PHONE"] {
		suggestions = append(suggestions, "What contact information is available?")
	}
	if present["DATE"] {
		suggestions = append(suggestions, "What are the important dates?")
	}
	if present["ADDRESS"] {
		suggestions = append(suggestions, "What locations are mentioned?")
	}

	if len(suggestions) > 6 {
		suggestions = suggestions[:6]
	}
	return suggestions
}
