package infra

import (
	"context"
	"log"

	appConfig "github.com/prezm/poc-orchestrator/config"
	"github.com/prezm/poc-orchestrator/infra/produce"
)

type Infra struct {
	Logger   *LoggerClient
	SSM      *SSMClient
	EC2      *EC2Client
	Route53  *Route53Client
	S3       *S3Client
	Redis    *RedisClient
	RabbitMQ *RabbitMQClient
	Produce  *produce.Produce
}

var infraInstance *Infra

func InitInfra(cfg *appConfig.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	awsCfg := InitAWSConfig(cfg.EnvConfig)

	ssmClient := InitSSMClient(awsCfg)
	ec2Client := InitEC2Client(awsCfg)
	route53Client := InitRoute53Client(awsCfg, cfg.EnvConfig.DNS.HostedZoneID)
	s3Client := InitS3Client(awsCfg, cfg.EnvConfig.Artifact.Bucket)

	// Redis is optional - inventory and access list reads fall through to AWS
	redisClient, err := NewRedisClient(cfg.EnvConfig)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis service: %v (caching disabled)", err)
		redisClient = nil
	}

	// RabbitMQ is optional - lifecycle events are only logged without it
	var produceService *produce.Produce
	rabbitMQ, err := NewRabbitMQClient(cfg.EnvConfig)
	if err != nil {
		log.Printf("Warning: Failed to initialize RabbitMQ service: %v (event publishing disabled)", err)
		rabbitMQ = nil
	} else {
		produceService = produce.InitProduce(rabbitMQ.Channel)
	}

	infraInstance = &Infra{
		Logger:   logger,
		SSM:      ssmClient,
		EC2:      ec2Client,
		Route53:  route53Client,
		S3:       s3Client,
		Redis:    redisClient,
		RabbitMQ: rabbitMQ,
		Produce:  produceService,
	}

	return infraInstance
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}

// Shutdown releases broker connections and flushes telemetry.
func (i *Infra) Shutdown(ctx context.Context) {
	if i.RabbitMQ != nil {
		i.RabbitMQ.Close()
	}
	if i.Logger != nil {
		if err := i.Logger.Shutdown(ctx); err != nil {
			log.Printf("Warning: telemetry shutdown failed: %v", err)
		}
	}
}
