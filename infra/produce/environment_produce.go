package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const environmentExchange = "poc_events"

// EnvironmentEvent is published after provisioning and lifecycle mutations so
// downstream consumers (billing, audit) can react without polling EC2.
type EnvironmentEvent struct {
	EventID     string `json:"eventId"`
	Type        string `json:"type"`
	EnvID       string `json:"envId,omitempty"`
	InstanceID  string `json:"instanceId,omitempty"`
	ClientLabel string `json:"clientLabel,omitempty"`
	Actor       string `json:"actor,omitempty"`
	Timestamp   string `json:"timestamp"`
}

type EnvironmentService struct {
	channel *amqp.Channel
}

func InitEnvironmentService(channel *amqp.Channel) *EnvironmentService {
	return &EnvironmentService{
		channel: channel,
	}
}

func (s *EnvironmentService) PublishEnvironmentCreated(ctx context.Context, envID, instanceID, clientLabel, actor string) error {
	return s.publish(ctx, "environment.created", EnvironmentEvent{
		Type:        "created",
		EnvID:       envID,
		InstanceID:  instanceID,
		ClientLabel: clientLabel,
		Actor:       actor,
	})
}

func (s *EnvironmentService) PublishLifecycleAction(ctx context.Context, action, envID, instanceID, actor string) error {
	return s.publish(ctx, "environment."+action, EnvironmentEvent{
		Type:       action,
		EnvID:      envID,
		InstanceID: instanceID,
		Actor:      actor,
	})
}

func (s *EnvironmentService) publish(ctx context.Context, routingKey string, event EnvironmentEvent) error {
	event.EventID = uuid.New().String()
	event.Timestamp = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal environment event: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		environmentExchange, // exchange
		routingKey,          // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish environment event: %w", err)
	}

	return nil
}
