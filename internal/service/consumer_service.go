package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"pii-anonymizer-be/internal/pkg/logger"
	"pii-anonymizer-be/pkg/events"
	pkgNats "pii-anonymizer-be/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the security event bus into the isolated security
// log file and, when NATS is configured, republishes for external consumers
// (SIEM, alerting). Both sinks are best-effort; Postgres already holds the
// durable audit row.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	securityLog   logger.ILogger
	natsPublisher *pkgNats.Publisher // nil when NATS is disabled
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	securityLog logger.ILogger,
	natsPublisher *pkgNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		securityLog:   securityLog,
		natsPublisher: natsPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.securityLog.Warn("security_events", "dropping malformed event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	action := msg.Metadata.Get("action")
	cs.securityLog.Info("security_events", action, payload)

	if cs.natsPublisher != nil {
		event := events.BaseEvent{Type: action, Data: payload}
		if err := cs.natsPublisher.Publish(ctx, event); err != nil {
			cs.securityLog.Warn("security_events", "nats republish failed", map[string]interface{}{
				"action": action,
				"error":  err.Error(),
			})
		}
	}

	msg.Ack()
}
