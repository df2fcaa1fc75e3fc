package revealgate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pii-anonymizer-be/pkg/apperrors"
)

// State of the per-session reveal budget.
type State string

const (
	StateAllowed State = "allowed"
	StateLocked  State = "locked"
)

// AttemptStore persists decrypt attempts. Implementations must survive
// process restart; the gate itself holds no attempt state.
type AttemptStore interface {
	Record(ctx context.Context, sessionID, actorID uuid.UUID, at time.Time) error
	// AttemptsSince returns attempt timestamps newer than since, ascending.
	AttemptsSince(ctx context.Context, sessionID uuid.UUID, since time.Time) ([]time.Time, error)
}

// Status is a snapshot of the sliding-window budget.
type Status struct {
	State       State
	Remaining   int
	MaxAttempts int
	Window      time.Duration
	// RetryAfter is how long until the oldest counted attempt ages out;
	// zero unless Locked.
	RetryAfter time.Duration
}

// Gate enforces the sliding-window decrypt budget. Attempts age out
// continuously: the lock clears lazily on the next evaluation once the
// oldest counted attempt falls outside the window, no background timer.
type Gate struct {
	store       AttemptStore
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

func New(store AttemptStore, maxAttempts int, window time.Duration) *Gate {
	return &Gate{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Evaluate is a pure read of the current budget state. It never records
// anything.
func (g *Gate) Evaluate(ctx context.Context, sessionID uuid.UUID) (Status, error) {
	now := g.now()
	attempts, err := g.store.AttemptsSince(ctx, sessionID, now.Add(-g.window))
	if err != nil {
		return Status{}, apperrors.Wrap(apperrors.KindInternal, "load decrypt attempts", err)
	}

	status := Status{
		State:       StateAllowed,
		Remaining:   g.maxAttempts - len(attempts),
		MaxAttempts: g.maxAttempts,
		Window:      g.window,
	}
	if status.Remaining <= 0 {
		status.Remaining = 0
		status.State = StateLocked
		// attempts are ascending; the oldest counted one frees the next slot
		status.RetryAfter = attempts[0].Add(g.window).Sub(now)
		if status.RetryAfter < 0 {
			status.RetryAfter = 0
		}
	}
	return status, nil
}

// Consume records one attempt against the budget. Callers must hold the
// session lock across Evaluate+Consume so two concurrent requests cannot
// both take the last slot.
func (g *Gate) Consume(ctx context.Context, sessionID, actorID uuid.UUID) error {
	if err := g.store.Record(ctx, sessionID, actorID, g.now()); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "record decrypt attempt", err)
	}
	return nil
}
