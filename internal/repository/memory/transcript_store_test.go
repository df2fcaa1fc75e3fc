package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-anonymizer-be/internal/entity"
)

func TestTranscriptStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewTranscriptStore(time.Hour)
	sessionID := uuid.New()

	err := store.Append(ctx, sessionID,
		entity.TranscriptEntry{Role: entity.ChatRoleUser, Content: "question"},
		entity.TranscriptEntry{Role: entity.ChatRoleAssistant, Content: "answer"},
	)
	require.NoError(t, err)

	entries, err := store.List(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.ChatRoleUser, entries[0].Role)
	assert.Equal(t, "answer", entries[1].Content)
}

func TestTranscriptStoreIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	store := NewTranscriptStore(time.Hour)
	first, second := uuid.New(), uuid.New()

	require.NoError(t, store.Append(ctx, first, entity.TranscriptEntry{Role: entity.ChatRoleUser, Content: "hi"}))

	entries, err := store.List(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTranscriptStoreCapsEntries(t *testing.T) {
	ctx := context.Background()
	store := NewTranscriptStore(time.Hour)
	sessionID := uuid.New()

	for i := 0; i < maxTranscriptEntries+10; i++ {
		require.NoError(t, store.Append(ctx, sessionID, entity.TranscriptEntry{
			Role:    entity.ChatRoleUser,
			Content: fmt.Sprintf("message %d", i),
		}))
	}

	entries, err := store.List(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, entries, maxTranscriptEntries)
	assert.Equal(t, "message 10", entries[0].Content, "oldest entries drop first")
}

func TestTranscriptStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewTranscriptStore(time.Hour)
	sessionID := uuid.New()

	require.NoError(t, store.Append(ctx, sessionID, entity.TranscriptEntry{Role: entity.ChatRoleUser, Content: "hi"}))
	require.NoError(t, store.Clear(ctx, sessionID))

	entries, err := store.List(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
