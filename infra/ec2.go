package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	appConfig "github.com/prezm/poc-orchestrator/config"
	"github.com/prezm/poc-orchestrator/entity"
)

// ec2API is the subset of the EC2 client used by this service.
type ec2API interface {
	RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
	DisassociateAddress(ctx context.Context, params *ec2.DisassociateAddressInput, optFns ...func(*ec2.Options)) (*ec2.DisassociateAddressOutput, error)
	ReleaseAddress(ctx context.Context, params *ec2.ReleaseAddressInput, optFns ...func(*ec2.Options)) (*ec2.ReleaseAddressOutput, error)
}

type EC2Client struct {
	API ec2API
}

func InitEC2Client(awsCfg aws.Config) *EC2Client {
	return &EC2Client{
		API: ec2.NewFromConfig(awsCfg),
	}
}

// RunEnvironmentRequest carries everything needed to launch one POC instance.
type RunEnvironmentRequest struct {
	EnvID            string
	Region           string
	ClientLabel      string
	CreatedBy        string
	CreatedDate      time.Time
	ImageID          string
	InstanceType     string
	KeyName          string
	SecurityGroupIDs []string
	SubnetID         string
	InstanceProfile  string
	VolumeSizeGB     int32
	MinCount         int32
	MaxCount         int32
	UserDataBase64   string
}

// RunEnvironmentInstance launches the instance carrying the bootstrap script
// and the fixed ownership tag set.
func (c *EC2Client) RunEnvironmentInstance(ctx context.Context, req RunEnvironmentRequest) ([]entity.InstanceSummary, error) {
	input := &ec2.RunInstancesInput{
		ImageId:      aws.String(req.ImageID),
		InstanceType: ec2types.InstanceType(req.InstanceType),
		MinCount:     aws.Int32(req.MinCount),
		MaxCount:     aws.Int32(req.MaxCount),
		BlockDeviceMappings: []ec2types.BlockDeviceMapping{
			{
				DeviceName: aws.String("/dev/sda1"),
				Ebs: &ec2types.EbsBlockDevice{
					VolumeSize:          aws.Int32(req.VolumeSizeGB),
					VolumeType:          ec2types.VolumeTypeGp3,
					DeleteOnTermination: aws.Bool(true),
				},
			},
		},
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeInstance,
				Tags: []ec2types.Tag{
					{Key: aws.String("Name"), Value: aws.String(req.EnvID)},
					{Key: aws.String("pocId"), Value: aws.String(req.EnvID)},
					{Key: aws.String("ClientName"), Value: aws.String(req.ClientLabel)},
					{Key: aws.String("CreatedBy"), Value: aws.String(req.CreatedBy)},
					{Key: aws.String("CreatedDate"), Value: aws.String(req.CreatedDate.UTC().Format(time.RFC3339))},
				},
			},
		},
	}

	if req.KeyName != "" {
		input.KeyName = aws.String(req.KeyName)
	}
	if len(req.SecurityGroupIDs) > 0 {
		input.SecurityGroupIds = req.SecurityGroupIDs
	}
	if req.SubnetID != "" {
		input.SubnetId = aws.String(req.SubnetID)
	}
	if req.InstanceProfile != "" {
		input.IamInstanceProfile = &ec2types.IamInstanceProfileSpecification{
			Name: aws.String(req.InstanceProfile),
		}
	}
	if req.UserDataBase64 != "" {
		input.UserData = aws.String(req.UserDataBase64)
	}

	out, err := c.API.RunInstances(ctx, input, regionOverride(req.Region)...)
	if err != nil {
		return nil, fmt.Errorf("run instances: %w", err)
	}

	summaries := make([]entity.InstanceSummary, 0, len(out.Instances))
	for _, inst := range out.Instances {
		summaries = append(summaries, summarizeInstance(inst))
	}
	return summaries, nil
}

func (c *EC2Client) StartInstance(ctx context.Context, instanceID string) error {
	_, err := c.API.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return fmt.Errorf("start instance %s: %w", instanceID, err)
	}
	return nil
}

func (c *EC2Client) StopInstance(ctx context.Context, instanceID string) error {
	_, err := c.API.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return fmt.Errorf("stop instance %s: %w", instanceID, err)
	}
	return nil
}

func (c *EC2Client) TerminateInstance(ctx context.Context, instanceID string) error {
	_, err := c.API.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return fmt.Errorf("terminate instance %s: %w", instanceID, err)
	}
	return nil
}

// ElasticAddress is the elastic IP state relevant at terminate time.
type ElasticAddress struct {
	PublicIP      string
	AllocationID  string
	AssociationID string
}

// FindAddressByInstance returns the elastic IP currently bound to the
// instance, or nil when none is associated. Zero-or-one result expected.
func (c *EC2Client) FindAddressByInstance(ctx context.Context, instanceID string) (*ElasticAddress, error) {
	out, err := c.API.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("instance-id"), Values: []string{instanceID}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("describe addresses for %s: %w", instanceID, err)
	}
	if len(out.Addresses) == 0 {
		return nil, nil
	}

	addr := out.Addresses[0]
	found := &ElasticAddress{}
	if addr.PublicIp != nil {
		found.PublicIP = *addr.PublicIp
	}
	if addr.AllocationId != nil {
		found.AllocationID = *addr.AllocationId
	}
	if addr.AssociationId != nil {
		found.AssociationID = *addr.AssociationId
	}
	return found, nil
}

func (c *EC2Client) DisassociateAddress(ctx context.Context, associationID string) error {
	_, err := c.API.DisassociateAddress(ctx, &ec2.DisassociateAddressInput{
		AssociationId: aws.String(associationID),
	})
	if err != nil {
		return fmt.Errorf("disassociate address %s: %w", associationID, err)
	}
	return nil
}

func (c *EC2Client) ReleaseAddress(ctx context.Context, allocationID string) error {
	_, err := c.API.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{
		AllocationId: aws.String(allocationID),
	})
	if err != nil {
		return fmt.Errorf("release address %s: %w", allocationID, err)
	}
	return nil
}

// ListInstancesByCreator returns all instances tagged CreatedBy=<email>,
// including stopped and recently terminated ones, as EC2 reports them.
// A non-empty region queries that region instead of the configured default.
func (c *EC2Client) ListInstancesByCreator(ctx context.Context, email, region string) ([]entity.InventoryItem, error) {
	out, err := c.API.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("tag:CreatedBy"), Values: []string{email}},
		},
	}, regionOverride(region)...)
	if err != nil {
		return nil, fmt.Errorf("describe instances for %s: %w", email, err)
	}

	var items []entity.InventoryItem
	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			item := entity.InventoryItem{
				InstanceSummary: summarizeInstance(inst),
				Tags:            map[string]string{},
			}
			for _, tag := range inst.Tags {
				if tag.Key == nil || tag.Value == nil {
					continue
				}
				item.Tags[*tag.Key] = *tag.Value
				switch *tag.Key {
				case "pocId":
					item.EnvID = *tag.Value
				case "ClientName":
					item.ClientLabel = *tag.Value
				case "CreatedDate":
					item.CreatedDate = *tag.Value
				}
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func regionOverride(region string) []func(*ec2.Options) {
	if region == "" {
		return nil
	}
	return []func(*ec2.Options){
		func(o *ec2.Options) { o.Region = region },
	}
}

func summarizeInstance(inst ec2types.Instance) entity.InstanceSummary {
	summary := entity.InstanceSummary{
		LaunchTime: inst.LaunchTime,
	}
	if inst.InstanceId != nil {
		summary.InstanceID = *inst.InstanceId
	}
	if inst.State != nil {
		summary.State = string(inst.State.Name)
	}
	if inst.PublicIpAddress != nil {
		summary.PublicIPAddress = *inst.PublicIpAddress
	}
	if inst.PrivateIpAddress != nil {
		summary.PrivateIPAddress = *inst.PrivateIpAddress
	}
	return summary
}

// DefaultsFromConfig fills a run request's optional fields from configuration.
func (r *RunEnvironmentRequest) DefaultsFromConfig(cfg *appConfig.EnvConfig) {
	if r.ImageID == "" {
		r.ImageID = cfg.EC2.ImageID
	}
	if r.InstanceType == "" {
		r.InstanceType = cfg.EC2.InstanceType
	}
	if r.KeyName == "" {
		r.KeyName = cfg.EC2.KeyName
	}
	if len(r.SecurityGroupIDs) == 0 {
		r.SecurityGroupIDs = cfg.EC2.SecurityGroupIDs
	}
	if r.SubnetID == "" {
		r.SubnetID = cfg.EC2.SubnetID
	}
	if r.InstanceProfile == "" {
		r.InstanceProfile = cfg.EC2.IamInstanceProfile
	}
	if r.VolumeSizeGB == 0 {
		r.VolumeSizeGB = cfg.EC2.VolumeSizeGB
	}
	if r.MinCount == 0 {
		r.MinCount = cfg.EC2.MinCount
	}
	if r.MaxCount == 0 {
		r.MaxCount = cfg.EC2.MaxCount
	}
}
