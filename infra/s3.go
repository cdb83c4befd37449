package infra

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Client archives a copy of each environment's rendered bootstrap script so
// operators can inspect what actually ran on the instance.
type S3Client struct {
	API    s3API
	Bucket string
}

func InitS3Client(awsCfg aws.Config, bucket string) *S3Client {
	return &S3Client{
		API:    s3.NewFromConfig(awsCfg),
		Bucket: bucket,
	}
}

func (c *S3Client) PutBootstrapArtifact(ctx context.Context, envID, script string) error {
	if c.Bucket == "" {
		return fmt.Errorf("artifact bucket is not configured")
	}

	key := fmt.Sprintf("bootstrap/%s/user-data.sh", envID)
	_, err := c.API.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.Bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(script),
		ContentType: aws.String("text/x-shellscript"),
	})
	if err != nil {
		return fmt.Errorf("put bootstrap artifact %s: %w", key, err)
	}
	return nil
}
