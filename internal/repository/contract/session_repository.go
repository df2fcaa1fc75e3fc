package contract

import (
	"context"

	"github.com/google/uuid"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/repository/specification"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.DocumentSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TouchLastAccessed(ctx context.Context, id uuid.UUID) error
	IncrementExportCount(ctx context.Context, id uuid.UUID) error
}
