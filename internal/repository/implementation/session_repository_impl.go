package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/mapper"
	"pii-anonymizer-be/internal/model"
	"pii-anonymizer-be/internal/repository/contract"
	"pii-anonymizer-be/internal/repository/specification"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.DocumentSession) error {
	modelSession := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(modelSession).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(modelSession)
	return nil
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSession, error) {
	var modelSession model.DocumentSession
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelSession).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelSession), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentSession, error) {
	var modelSessions []*model.DocumentSession
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelSessions).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelSessions), nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DocumentSession{}).Error
}

func (r *SessionRepositoryImpl) TouchLastAccessed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.DocumentSession{}).
		Where("id = ?", id).
		Update("last_accessed", time.Now()).Error
}

func (r *SessionRepositoryImpl) IncrementExportCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.DocumentSession{}).
		Where("id = ?", id).
		Update("export_count", gorm.Expr("export_count + 1")).Error
}
