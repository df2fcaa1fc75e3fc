package dto

import (
	"time"

	"github.com/google/uuid"
)

// MappingResponse exposes a placeholder binding without its original value.
// Original values only leave the vault through the reveal endpoint.
type MappingResponse struct {
	Id          uuid.UUID `json:"id"`
	EntityType  string  `json:"entity_type"`
	Placeholder string  `json:"placeholder"`
	Confidence  float64 `json:"confidence"`
	Method      string  `json:"detection_method"`
}

type UploadResponse struct {
	SessionId      uuid.UUID         `json:"session_id"`
	Filename       string            `json:"filename"`
	AnonymizedText string            `json:"anonymized_text"`
	EntityCount    int               `json:"entity_count"`
	Mappings       []MappingResponse `json:"mappings"`
	CreatedAt      time.Time         `json:"created_at"`
}

type SessionSummaryResponse struct {
	Id           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	EntityCount  int64     `json:"entity_count"`
	ExportCount  int       `json:"export_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

type SessionDetailResponse struct {
	Id             uuid.UUID         `json:"id"`
	Filename       string            `json:"filename"`
	AnonymizedText string            `json:"anonymized_text"`
	Mappings       []MappingResponse `json:"mappings"`
	ExportCount    int               `json:"export_count"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessed   time.Time         `json:"last_accessed"`
}
