package revealgate

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps attempts in memory, mirroring the ascending-order contract
// of the persistent store.
type fakeStore struct {
	attempts map[uuid.UUID][]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{attempts: make(map[uuid.UUID][]time.Time)}
}

func (s *fakeStore) Record(ctx context.Context, sessionID, actorID uuid.UUID, at time.Time) error {
	s.attempts[sessionID] = append(s.attempts[sessionID], at)
	return nil
}

func (s *fakeStore) AttemptsSince(ctx context.Context, sessionID uuid.UUID, since time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, at := range s.attempts[sessionID] {
		if at.After(since) {
			out = append(out, at)
		}
	}
	return out, nil
}

func TestGateAllowsUpToMaxAttempts(t *testing.T) {
	ctx := context.Background()
	sessionID, actorID := uuid.New(), uuid.New()
	gate := New(newFakeStore(), 3, time.Hour)

	for i := 0; i < 3; i++ {
		status, err := gate.Evaluate(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, StateAllowed, status.State)
		assert.Equal(t, 3-i, status.Remaining)
		require.NoError(t, gate.Consume(ctx, sessionID, actorID))
	}

	status, err := gate.Evaluate(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, StateLocked, status.State)
	assert.Equal(t, 0, status.Remaining)
	assert.Greater(t, status.RetryAfter, time.Duration(0))
}

func TestGateBudgetIsPerSession(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	first, second := uuid.New(), uuid.New()
	gate := New(newFakeStore(), 1, time.Hour)

	require.NoError(t, gate.Consume(ctx, first, actorID))

	status, err := gate.Evaluate(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, StateLocked, status.State)

	status, err = gate.Evaluate(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, StateAllowed, status.State)
}

func TestGateUnlocksWhenOldestAttemptAgesOut(t *testing.T) {
	ctx := context.Background()
	sessionID, actorID := uuid.New(), uuid.New()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	gate := New(newFakeStore(), 3, time.Hour).WithClock(clock)

	for i := 0; i < 3; i++ {
		require.NoError(t, gate.Consume(ctx, sessionID, actorID))
		now = now.Add(10 * time.Minute)
	}

	status, err := gate.Evaluate(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, StateLocked, status.State)
	// Oldest attempt was at 12:00; it ages out at 13:00 and now is 12:30.
	assert.Equal(t, 30*time.Minute, status.RetryAfter)

	// One slot frees as the oldest attempt leaves the window.
	now = now.Add(31 * time.Minute)
	status, err = gate.Evaluate(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, StateAllowed, status.State)
	assert.Equal(t, 1, status.Remaining)

	// The whole window clears without any reset action.
	now = now.Add(time.Hour)
	status, err = gate.Evaluate(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Remaining)
}

func TestGateEvaluateDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()
	gate := New(newFakeStore(), 3, time.Hour)

	for i := 0; i < 10; i++ {
		status, err := gate.Evaluate(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 3, status.Remaining)
	}
}
