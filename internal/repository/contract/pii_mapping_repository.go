package contract

import (
	"context"

	"github.com/google/uuid"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/repository/specification"
)

type PIIMappingRepository interface {
	CreateBatch(ctx context.Context, mappings []*entity.PIIMapping) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PIIMapping, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}
