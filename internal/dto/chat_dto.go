package dto

import "time"

type ChatRequest struct {
	Query string `json:"query" validate:"required,min=1,max=2000"`
}

type SnippetResponse struct {
	Text     string `json:"text"`
	Position int    `json:"position"`
	Keyword  string `json:"keyword"`
}

type ChatResponse struct {
	Answer      string            `json:"answer"`
	Snippets    []SnippetResponse `json:"snippets,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

type TranscriptEntryResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
