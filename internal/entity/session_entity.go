package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentSession is one anonymization session. AnonymizedText is immutable
// after the upload pipeline commits; only ExportCount and LastAccessed
// mutate afterwards.
type DocumentSession struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	OriginalFilename    string
	AnonymizedText      string
	SessionKeyEncrypted string
	ExportCount         int
	CreatedAt           time.Time
	LastAccessed        time.Time
}

// PIIMapping is one placeholder assignment within a session. The original
// value is stored only in encrypted form; immutable, deleted with the
// owning session.
type PIIMapping struct {
	Id                     uuid.UUID
	SessionId              uuid.UUID
	EntityType             string
	Placeholder            string
	OriginalValueEncrypted string
	Confidence             float64
	DetectionMethod        string
	CreatedAt              time.Time
}

// DecryptAttempt is one consumed slot of a session's decrypt budget.
type DecryptAttempt struct {
	Id          uuid.UUID
	SessionId   uuid.UUID
	ActorId     uuid.UUID
	AttemptedAt time.Time
}
