package config

import (
	"os"
	"strconv"
	"strings"
)

type EnvConfig struct {
	AWS struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
	}
	EC2 struct {
		ImageID            string
		InstanceType       string
		KeyName            string
		SecurityGroupIDs   []string
		SubnetID           string
		IamInstanceProfile string
		VolumeSizeGB       int32
		MinCount           int32
		MaxCount           int32
	}
	DNS struct {
		BaseDomain   string
		HostedZoneID string
	}
	SSM struct {
		ParamPrefix  string
		CounterParam string
		AccessParam  string
	}
	Artifact struct {
		Bucket string
	}
	JWT struct {
		SecretKey string
	}
	CORS struct {
		AllowDomains string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Grafana struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Environment struct {
		Mode string
	}
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// AWS
	config.AWS.Region = os.Getenv("AWS_REGION")
	if config.AWS.Region == "" {
		config.AWS.Region = "ap-south-1"
	}
	config.AWS.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	config.AWS.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	// EC2 defaults for new environments
	config.EC2.ImageID = os.Getenv("EC2_IMAGE_ID")
	config.EC2.InstanceType = os.Getenv("EC2_INSTANCE_TYPE")
	if config.EC2.InstanceType == "" {
		config.EC2.InstanceType = "t3.large"
	}
	config.EC2.KeyName = os.Getenv("EC2_KEY_NAME")
	if config.EC2.KeyName == "" {
		config.EC2.KeyName = "windows-keys"
	}
	if groups := os.Getenv("EC2_SECURITY_GROUP_IDS"); groups != "" {
		config.EC2.SecurityGroupIDs = strings.Split(groups, ",")
	}
	config.EC2.SubnetID = os.Getenv("EC2_SUBNET_ID")
	config.EC2.IamInstanceProfile = os.Getenv("EC2_INSTANCE_PROFILE")
	if config.EC2.IamInstanceProfile == "" {
		config.EC2.IamInstanceProfile = "Api_tasks"
	}
	if val, err := strconv.Atoi(os.Getenv("EC2_VOLUME_SIZE_GB")); err == nil && val > 0 {
		config.EC2.VolumeSizeGB = int32(val)
	} else {
		config.EC2.VolumeSizeGB = 100
	}
	config.EC2.MinCount = 1
	config.EC2.MaxCount = 1

	// Route53
	config.DNS.BaseDomain = os.Getenv("POC_BASE_DOMAIN")
	if config.DNS.BaseDomain == "" {
		config.DNS.BaseDomain = "poc.saas.prezm.com"
	}
	config.DNS.HostedZoneID = os.Getenv("ROUTE_53_HOSTED_ZONE_ID")

	// SSM parameter layout
	config.SSM.ParamPrefix = os.Getenv("SSM_PARAM_PREFIX")
	if config.SSM.ParamPrefix == "" {
		config.SSM.ParamPrefix = "/poc"
	}
	config.SSM.ParamPrefix = strings.TrimSuffix(config.SSM.ParamPrefix, "/")
	config.SSM.CounterParam = config.SSM.ParamPrefix + "/counter"
	config.SSM.AccessParam = config.SSM.ParamPrefix + "/allowedCreators"

	config.Artifact.Bucket = os.Getenv("BOOTSTRAP_ARTIFACT_BUCKET")

	// JWT
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")

	// Redis (optional cache)
	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.RedisHost = os.Getenv("REDIS_HOST")
	config.Redis.RedisPort = os.Getenv("REDIS_PORT")
	if config.Redis.RedisPort == "" {
		config.Redis.RedisPort = "6379"
	}

	// RabbitMQ (optional event publisher)
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	// Grafana/OpenTelemetry
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	if strings.HasPrefix(grafanaEndpoint, "https://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	} else if strings.HasPrefix(grafanaEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
	} else {
		config.Grafana.OTLPEndpoint = grafanaEndpoint
	}
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "poc-orchestrator"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	return &config
}

// CredentialParam returns the SSM parameter name holding one credential field
// (username or password) for the given environment.
func (c *EnvConfig) CredentialParam(envID, field string) string {
	return c.SSM.ParamPrefix + "/" + envID + "/" + field
}
