package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/mapper"
	"pii-anonymizer-be/internal/model"
	"pii-anonymizer-be/internal/repository/contract"
	"pii-anonymizer-be/internal/repository/specification"
)

type PIIMappingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MappingMapper
}

func NewPIIMappingRepository(db *gorm.DB) contract.PIIMappingRepository {
	return &PIIMappingRepositoryImpl{
		db:     db,
		mapper: mapper.NewMappingMapper(),
	}
}

func (r *PIIMappingRepositoryImpl) CreateBatch(ctx context.Context, mappings []*entity.PIIMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	models := make([]*model.PIIMapping, 0, len(mappings))
	for _, m := range mappings {
		models = append(models, r.mapper.ToModel(m))
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*mappings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PIIMappingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PIIMapping, error) {
	var models []*model.PIIMapping
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *PIIMappingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.PIIMapping{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PIIMappingRepositoryImpl) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.PIIMapping{}).Error
}
