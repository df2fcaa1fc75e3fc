package mapper

import (
	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.DocumentSession) *entity.DocumentSession {
	if s == nil {
		return nil
	}
	return &entity.DocumentSession{
		Id:                  s.Id,
		UserId:              s.UserId,
		OriginalFilename:    s.OriginalFilename,
		AnonymizedText:      s.AnonymizedText,
		SessionKeyEncrypted: s.SessionKeyEncrypted,
		ExportCount:         s.ExportCount,
		CreatedAt:           s.CreatedAt,
		LastAccessed:        s.LastAccessed,
	}
}

func (m *SessionMapper) ToModel(s *entity.DocumentSession) *model.DocumentSession {
	if s == nil {
		return nil
	}
	return &model.DocumentSession{
		Id:                  s.Id,
		UserId:              s.UserId,
		OriginalFilename:    s.OriginalFilename,
		AnonymizedText:      s.AnonymizedText,
		SessionKeyEncrypted: s.SessionKeyEncrypted,
		ExportCount:         s.ExportCount,
		CreatedAt:           s.CreatedAt,
		LastAccessed:        s.LastAccessed,
	}
}

func (m *SessionMapper) ToEntities(models []*model.DocumentSession) []*entity.DocumentSession {
	entities := make([]*entity.DocumentSession, 0, len(models))
	for _, s := range models {
		entities = append(entities, m.ToEntity(s))
	}
	return entities
}

type MappingMapper struct{}

func NewMappingMapper() *MappingMapper {
	return &MappingMapper{}
}

func (m *MappingMapper) ToEntity(p *model.PIIMapping) *entity.PIIMapping {
	if p == nil {
		return nil
	}
	return &entity.PIIMapping{
		Id:                     p.Id,
		SessionId:              p.SessionId,
		EntityType:             p.EntityType,
		Placeholder:            p.Placeholder,
		OriginalValueEncrypted: p.OriginalValueEncrypted,
		Confidence:             p.Confidence,
		DetectionMethod:        p.DetectionMethod,
		CreatedAt:              p.CreatedAt,
	}
}

func (m *MappingMapper) ToModel(p *entity.PIIMapping) *model.PIIMapping {
	if p == nil {
		return nil
	}
	return &model.PIIMapping{
		Id:                     p.Id,
		SessionId:              p.SessionId,
		EntityType:             p.EntityType,
		Placeholder:            p.Placeholder,
		OriginalValueEncrypted: p.OriginalValueEncrypted,
		Confidence:             p.Confidence,
		DetectionMethod:        p.DetectionMethod,
		CreatedAt:              p.CreatedAt,
	}
}

func (m *MappingMapper) ToEntities(models []*model.PIIMapping) []*entity.PIIMapping {
	entities := make([]*entity.PIIMapping, 0, len(models))
	for _, p := range models {
		entities = append(entities, m.ToEntity(p))
	}
	return entities
}
