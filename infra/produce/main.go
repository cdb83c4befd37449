package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	EnvironmentService *EnvironmentService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	environmentService := InitEnvironmentService(channel)
	if environmentService == nil {
		panic("Failed to initialize Environment event service")
	}

	produceInstance = &Produce{
		EnvironmentService: environmentService,
	}

	return produceInstance
}
