package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/repository/contract"
)

const maxTranscriptEntries = 50

// TranscriptStore keeps session transcripts in a Redis list so chat history
// survives a single-process restart but still expires on its own.
type TranscriptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTranscriptStore(client *redis.Client, ttl time.Duration) contract.TranscriptStore {
	return &TranscriptStore{client: client, ttl: ttl}
}

func transcriptKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("transcript:%s", sessionID)
}

func (s *TranscriptStore) Append(ctx context.Context, sessionID uuid.UUID, entries ...entity.TranscriptEntry) error {
	if len(entries) == 0 {
		return nil
	}
	key := transcriptKey(sessionID)

	values := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal transcript entry: %w", err)
		}
		values = append(values, payload)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-maxTranscriptEntries), -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

func (s *TranscriptStore) List(ctx context.Context, sessionID uuid.UUID) ([]entity.TranscriptEntry, error) {
	raw, err := s.client.LRange(ctx, transcriptKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list transcript: %w", err)
	}

	entries := make([]entity.TranscriptEntry, 0, len(raw))
	for _, item := range raw {
		var entry entity.TranscriptEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *TranscriptStore) Clear(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.client.Del(ctx, transcriptKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}
