package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/mapper"
	"pii-anonymizer-be/internal/model"
	"pii-anonymizer-be/internal/repository/contract"
	"pii-anonymizer-be/internal/repository/specification"
)

type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuditMapper
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &AuditLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuditMapper(),
	}
}

func (r *AuditLogRepositoryImpl) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	m, err := r.mapper.ToModel(entry)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *AuditLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLogEntry, error) {
	var models []*model.AuditLogEntry
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *AuditLogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuditLogEntry, error) {
	var m model.AuditLogEntry
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

// DeleteBySession is the only allowed removal path: audit entries are purged
// together with their owning session, never individually.
func (r *AuditLogRepositoryImpl) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.AuditLogEntry{}).Error
}
