package contract

import (
	"context"

	"github.com/google/uuid"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/repository/specification"
)

// AuditLogRepository is append-only. Append must never fail silently:
// callers treat any returned error as fatal to the operation being audited.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLogEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLogEntry, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuditLogEntry, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}
