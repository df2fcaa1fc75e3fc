package implementation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-anonymizer-be/internal/entity"
)

type recordingAttemptRepo struct {
	created []*entity.DecryptAttempt
	pruned  []time.Time
}

func (r *recordingAttemptRepo) Create(ctx context.Context, attempt *entity.DecryptAttempt) error {
	r.created = append(r.created, attempt)
	return nil
}

func (r *recordingAttemptRepo) FindSince(ctx context.Context, sessionID uuid.UUID, since time.Time) ([]*entity.DecryptAttempt, error) {
	var out []*entity.DecryptAttempt
	for _, a := range r.created {
		if a.SessionId == sessionID && a.AttemptedAt.After(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *recordingAttemptRepo) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	return nil
}

func (r *recordingAttemptRepo) PruneBefore(ctx context.Context, cutoff time.Time) error {
	r.pruned = append(r.pruned, cutoff)
	return nil
}

func TestAttemptStoreAdapterRecordPrunesAgedRows(t *testing.T) {
	repo := &recordingAttemptRepo{}
	adapter := NewAttemptStoreAdapter(repo, time.Hour)

	sessionID, actorID := uuid.New(), uuid.New()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, adapter.Record(context.Background(), sessionID, actorID, at))

	require.Len(t, repo.created, 1)
	assert.Equal(t, sessionID, repo.created[0].SessionId)
	assert.Equal(t, actorID, repo.created[0].ActorId)
	assert.Equal(t, at, repo.created[0].AttemptedAt)

	require.Len(t, repo.pruned, 1)
	assert.Equal(t, at.Add(-time.Hour), repo.pruned[0], "rows older than the window are pruned on record")
}

func TestAttemptStoreAdapterAttemptsSince(t *testing.T) {
	repo := &recordingAttemptRepo{}
	adapter := NewAttemptStoreAdapter(repo, time.Hour)

	sessionID, actorID := uuid.New(), uuid.New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{0, 10 * time.Minute, 2 * time.Hour} {
		require.NoError(t, adapter.Record(context.Background(), sessionID, actorID, base.Add(offset)))
	}

	times, err := adapter.AttemptsSince(context.Background(), sessionID, base.Add(5*time.Minute))
	require.NoError(t, err)
	require.Len(t, times, 2)
	assert.Equal(t, base.Add(10*time.Minute), times[0])
	assert.Equal(t, base.Add(2*time.Hour), times[1])
}
