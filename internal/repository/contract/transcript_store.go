package contract

import (
	"context"

	"github.com/google/uuid"

	"pii-anonymizer-be/internal/entity"
)

// TranscriptStore holds chat transcripts in volatile, faster storage
// (in-process cache or Redis). Entries are capped per session and flushed
// on clear and on session deletion.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID uuid.UUID, entries ...entity.TranscriptEntry) error
	List(ctx context.Context, sessionID uuid.UUID) ([]entity.TranscriptEntry, error)
	Clear(ctx context.Context, sessionID uuid.UUID) error
}
