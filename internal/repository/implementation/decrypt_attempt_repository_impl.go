package implementation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/model"
	"pii-anonymizer-be/internal/repository/contract"
	"pii-anonymizer-be/internal/repository/specification"
)

type DecryptAttemptRepositoryImpl struct {
	db *gorm.DB
}

func NewDecryptAttemptRepository(db *gorm.DB) contract.DecryptAttemptRepository {
	return &DecryptAttemptRepositoryImpl{db: db}
}

func (r *DecryptAttemptRepositoryImpl) Create(ctx context.Context, attempt *entity.DecryptAttempt) error {
	m := &model.DecryptAttempt{
		Id:          attempt.Id,
		SessionId:   attempt.SessionId,
		ActorId:     attempt.ActorId,
		AttemptedAt: attempt.AttemptedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	attempt.Id = m.Id
	return nil
}

func (r *DecryptAttemptRepositoryImpl) FindSince(ctx context.Context, sessionID uuid.UUID, since time.Time) ([]*entity.DecryptAttempt, error) {
	var models []*model.DecryptAttempt
	err := applySpecifications(r.db.WithContext(ctx),
		specification.BySession{SessionID: sessionID},
		specification.After{Field: "attempted_at", Time: since},
		specification.OrderBy{Field: "attempted_at", Desc: false},
	).Find(&models).Error
	if err != nil {
		return nil, err
	}

	attempts := make([]*entity.DecryptAttempt, 0, len(models))
	for _, m := range models {
		attempts = append(attempts, &entity.DecryptAttempt{
			Id:          m.Id,
			SessionId:   m.SessionId,
			ActorId:     m.ActorId,
			AttemptedAt: m.AttemptedAt,
		})
	}
	return attempts, nil
}

func (r *DecryptAttemptRepositoryImpl) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.DecryptAttempt{}).Error
}

// PruneBefore removes attempts that can no longer influence any window.
func (r *DecryptAttemptRepositoryImpl) PruneBefore(ctx context.Context, cutoff time.Time) error {
	return r.db.WithContext(ctx).Where("attempted_at < ?", cutoff).Delete(&model.DecryptAttempt{}).Error
}
