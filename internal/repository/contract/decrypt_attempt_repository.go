package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pii-anonymizer-be/internal/entity"
)

// DecryptAttemptRepository is the persistent backing of the reveal gate's
// sliding window. Rows survive restart; old rows are pruned opportunistically.
type DecryptAttemptRepository interface {
	Create(ctx context.Context, attempt *entity.DecryptAttempt) error
	FindSince(ctx context.Context, sessionID uuid.UUID, since time.Time) ([]*entity.DecryptAttempt, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
	PruneBefore(ctx context.Context, cutoff time.Time) error
}
