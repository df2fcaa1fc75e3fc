package dto

import (
	"time"

	"github.com/google/uuid"
)

type RevealRequest struct {
	Password string `json:"password" validate:"required"`
}

type RevealResponse struct {
	OriginalText string `json:"original_text"`
	Remaining    int    `json:"attempts_remaining"`
}

type RevealStatusResponse struct {
	State             string     `json:"state"` // "allowed" or "locked"
	Remaining         int        `json:"attempts_remaining"`
	MaxAttempts       int        `json:"max_attempts"`
	WindowSeconds     int        `json:"window_seconds"`
	RetryAfterSeconds int        `json:"retry_after_seconds,omitempty"`
	LastDecryptAt     *time.Time `json:"last_decrypt_at,omitempty"`
}

type AuditEntryResponse struct {
	Id        uuid.UUID              `json:"id"`
	SessionId *uuid.UUID             `json:"session_id,omitempty"`
	ActorId   uuid.UUID              `json:"actor_id"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
