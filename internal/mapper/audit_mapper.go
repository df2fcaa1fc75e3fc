package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/model"
)

type AuditMapper struct{}

func NewAuditMapper() *AuditMapper {
	return &AuditMapper{}
}

func (m *AuditMapper) ToEntity(a *model.AuditLogEntry) *entity.AuditLogEntry {
	if a == nil {
		return nil
	}
	var details map[string]interface{}
	if len(a.Details) > 0 {
		// details column is written by us; a decode failure means DB
		// corruption and is surfaced as an empty map rather than an error
		_ = json.Unmarshal(a.Details, &details)
	}
	return &entity.AuditLogEntry{
		Id:        a.Id,
		SessionId: a.SessionId,
		ActorId:   a.ActorId,
		Action:    entity.AuditAction(a.Action),
		Details:   details,
		CreatedAt: a.CreatedAt,
	}
}

func (m *AuditMapper) ToModel(a *entity.AuditLogEntry) (*model.AuditLogEntry, error) {
	if a == nil {
		return nil, nil
	}
	var details datatypes.JSON
	if a.Details != nil {
		raw, err := json.Marshal(a.Details)
		if err != nil {
			return nil, err
		}
		details = datatypes.JSON(raw)
	}
	return &model.AuditLogEntry{
		Id:        a.Id,
		SessionId: a.SessionId,
		ActorId:   a.ActorId,
		Action:    string(a.Action),
		Details:   details,
		CreatedAt: a.CreatedAt,
	}, nil
}

func (m *AuditMapper) ToEntities(models []*model.AuditLogEntry) []*entity.AuditLogEntry {
	entities := make([]*entity.AuditLogEntry, 0, len(models))
	for _, a := range models {
		entities = append(entities, m.ToEntity(a))
	}
	return entities
}
