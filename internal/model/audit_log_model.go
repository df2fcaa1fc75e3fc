package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLogEntry struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId *uuid.UUID `gorm:"type:uuid;index"`
	ActorId   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Action    string     `gorm:"type:varchar(50);not null"`
	Details   datatypes.JSON
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log"
}
