package model

import (
	"time"

	"github.com/google/uuid"
)

type DocumentSession struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId              uuid.UUID `gorm:"type:uuid;not null;index"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	AnonymizedText      string    `gorm:"type:text;not null"`
	SessionKeyEncrypted string    `gorm:"type:text;not null"`
	ExportCount         int       `gorm:"default:0"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	LastAccessed        time.Time
}

func (DocumentSession) TableName() string {
	return "document_sessions"
}

type PIIMapping struct {
	Id                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId              uuid.UUID `gorm:"type:uuid;not null;index"`
	EntityType             string    `gorm:"type:varchar(50);not null"`
	Placeholder            string    `gorm:"type:varchar(100);not null"`
	OriginalValueEncrypted string    `gorm:"type:text;not null"`
	Confidence             float64
	DetectionMethod        string    `gorm:"type:varchar(50)"`
	CreatedAt              time.Time `gorm:"autoCreateTime"`
}

func (PIIMapping) TableName() string {
	return "pii_mappings"
}

type DecryptAttempt struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   uuid.UUID `gorm:"type:uuid;not null;index:idx_decrypt_attempts_window"`
	ActorId     uuid.UUID `gorm:"type:uuid;not null"`
	AttemptedAt time.Time `gorm:"not null;index:idx_decrypt_attempts_window"`
}

func (DecryptAttempt) TableName() string {
	return "decrypt_attempts"
}
