package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ssmAPI is the subset of the SSM client used by this service, kept small so
// tests can substitute a fake.
type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

type SSMClient struct {
	API ssmAPI
}

func InitSSMClient(awsCfg aws.Config) *SSMClient {
	return &SSMClient{
		API: ssm.NewFromConfig(awsCfg),
	}
}

// GetParameter reads one parameter with decryption. A missing parameter is
// reported as found=false, not an error.
func (s *SSMClient) GetParameter(ctx context.Context, name string) (value string, found bool, err error) {
	out, err := s.API.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", false, nil
	}
	return *out.Parameter.Value, true, nil
}

// PutParameter writes one parameter, overwriting any existing value.
func (s *SSMClient) PutParameter(ctx context.Context, name, value string, secure bool) error {
	paramType := types.ParameterTypeString
	if secure {
		paramType = types.ParameterTypeSecureString
	}

	_, err := s.API.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      paramType,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("put parameter %s: %w", name, err)
	}
	return nil
}
