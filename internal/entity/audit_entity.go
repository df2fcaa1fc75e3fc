package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditDecryptAttempt AuditAction = "decrypt_attempt"
	AuditDecryptSuccess AuditAction = "decrypt_success"
	AuditDecryptDenied  AuditAction = "decrypt_denied"
	AuditExport         AuditAction = "export"
	AuditChatQuery      AuditAction = "chat_query"
	AuditUpload         AuditAction = "upload"
	AuditSessionDeleted AuditAction = "session_deleted"
	AuditLoginSuccess   AuditAction = "login_success"
	AuditLoginFailed    AuditAction = "login_failed"
	AuditLogout         AuditAction = "logout"
)

// AuditLogEntry is append-only. SessionId is nil for account-level events
// (logins); session-scoped entries are purged only with the session.
type AuditLogEntry struct {
	Id        uuid.UUID
	SessionId *uuid.UUID
	ActorId   uuid.UUID
	Action    AuditAction
	Details   map[string]interface{}
	CreatedAt time.Time
}
