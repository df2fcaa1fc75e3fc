package entity

import "time"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// TranscriptEntry is one exchange line in a session's chat transcript.
// Transcripts live in volatile storage and are clearable independently of
// the session.
type TranscriptEntry struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	ContextIds []int     `json:"context_ids,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
