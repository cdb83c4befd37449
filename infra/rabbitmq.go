package infra

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	appConfig "github.com/prezm/poc-orchestrator/config"
)

type RabbitMQClient struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
}

// NewRabbitMQClient connects to RabbitMQ. The event publisher is optional:
// when unavailable, lifecycle events are only logged.
func NewRabbitMQClient(cfg *appConfig.EnvConfig) (*RabbitMQClient, error) {
	if cfg.RabbitMQ.Host == "" {
		return nil, fmt.Errorf("rabbitmq host is not configured")
	}

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQ.Username, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connection failed: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel failed: %w", err)
	}

	return &RabbitMQClient{
		Connection: conn,
		Channel:    channel,
	}, nil
}

func (r *RabbitMQClient) Close() {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.Connection != nil {
		r.Connection.Close()
	}
}
