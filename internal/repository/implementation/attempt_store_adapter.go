package implementation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/repository/contract"
)

// AttemptStoreAdapter exposes the decrypt attempt table through the narrow
// interface the reveal gate consumes. Retention equals the gate's window:
// older rows can never count toward any budget again.
type AttemptStoreAdapter struct {
	repo      contract.DecryptAttemptRepository
	retention time.Duration
}

func NewAttemptStoreAdapter(repo contract.DecryptAttemptRepository, retention time.Duration) *AttemptStoreAdapter {
	return &AttemptStoreAdapter{repo: repo, retention: retention}
}

func (a *AttemptStoreAdapter) Record(ctx context.Context, sessionID, actorID uuid.UUID, at time.Time) error {
	if err := a.repo.Create(ctx, &entity.DecryptAttempt{
		Id:          uuid.New(),
		SessionId:   sessionID,
		ActorId:     actorID,
		AttemptedAt: at,
	}); err != nil {
		return err
	}
	return a.repo.PruneBefore(ctx, at.Add(-a.retention))
}

func (a *AttemptStoreAdapter) AttemptsSince(ctx context.Context, sessionID uuid.UUID, since time.Time) ([]time.Time, error) {
	attempts, err := a.repo.FindSince(ctx, sessionID, since)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, 0, len(attempts))
	for _, attempt := range attempts {
		times = append(times, attempt.AttemptedAt)
	}
	return times, nil
}
