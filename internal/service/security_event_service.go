package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/pkg/logger"
	"pii-anonymizer-be/pkg/events"
)

const SecurityEventsTopic = "security_events"

// ISecurityEventService fans audited actions out to the in-process bus.
// Publishing is strictly best-effort: the durable audit row is already
// committed by the time an event is emitted, and a publish failure must
// never fail the request.
type ISecurityEventService interface {
	Emit(ctx context.Context, action entity.AuditAction, sessionID *uuid.UUID, actorID uuid.UUID, details map[string]interface{})
}

type securityEventService struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewSecurityEventService(pubSub *gochannel.GoChannel, log logger.ILogger) ISecurityEventService {
	return &securityEventService{
		pubSub: pubSub,
		logger: log,
	}
}

func (s *securityEventService) Emit(ctx context.Context, action entity.AuditAction, sessionID *uuid.UUID, actorID uuid.UUID, details map[string]interface{}) {
	sid := ""
	if sessionID != nil {
		sid = sessionID.String()
	}
	event := events.SecurityEvent(string(action), sid, actorID.String(), details)

	payload, err := json.Marshal(event.Payload())
	if err != nil {
		s.logger.Warn("security_events", "failed to marshal security event", map[string]interface{}{
			"action": string(action),
			"error":  err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("action", string(action))

	if err := s.pubSub.Publish(SecurityEventsTopic, msg); err != nil {
		s.logger.Warn("security_events", "failed to publish security event", map[string]interface{}{
			"action": string(action),
			"error":  err.Error(),
		})
	}
}
