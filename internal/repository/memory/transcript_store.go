package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/repository/contract"
)

// maxTranscriptEntries caps a session transcript; oldest entries are
// dropped first.
const maxTranscriptEntries = 50

type TranscriptStore struct {
	cache *gocache.Cache
	mu    sync.Mutex
}

func NewTranscriptStore(ttl time.Duration) contract.TranscriptStore {
	return &TranscriptStore{
		cache: gocache.New(ttl, ttl/2),
	}
}

func (s *TranscriptStore) Append(ctx context.Context, sessionID uuid.UUID, entries ...entity.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionID.String()
	var transcript []entity.TranscriptEntry
	if existing, found := s.cache.Get(key); found {
		transcript = existing.([]entity.TranscriptEntry)
	}
	transcript = append(transcript, entries...)
	if len(transcript) > maxTranscriptEntries {
		transcript = transcript[len(transcript)-maxTranscriptEntries:]
	}
	s.cache.Set(key, transcript, gocache.DefaultExpiration)
	return nil
}

func (s *TranscriptStore) List(ctx context.Context, sessionID uuid.UUID) ([]entity.TranscriptEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found := s.cache.Get(sessionID.String())
	if !found {
		return nil, nil
	}
	transcript := existing.([]entity.TranscriptEntry)
	out := make([]entity.TranscriptEntry, len(transcript))
	copy(out, transcript)
	return out, nil
}

func (s *TranscriptStore) Clear(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Delete(sessionID.String())
	return nil
}
