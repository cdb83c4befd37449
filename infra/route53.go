package infra

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

const dnsRecordTTL = 300

type route53API interface {
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
}

type Route53Client struct {
	API          route53API
	HostedZoneID string
}

func InitRoute53Client(awsCfg aws.Config, hostedZoneID string) *Route53Client {
	return &Route53Client{
		API:          route53.NewFromConfig(awsCfg),
		HostedZoneID: hostedZoneID,
	}
}

// DeleteARecord removes the A record mapping domain to ip. Route53 requires
// the record's current value to delete it, which is why the caller passes the
// elastic IP discovered at terminate time.
func (c *Route53Client) DeleteARecord(ctx context.Context, domain, ip string) error {
	return c.changeARecord(ctx, r53types.ChangeActionDelete, domain, ip)
}

// UpsertARecord creates or updates the A record mapping domain to ip.
func (c *Route53Client) UpsertARecord(ctx context.Context, domain, ip string) error {
	return c.changeARecord(ctx, r53types.ChangeActionUpsert, domain, ip)
}

func (c *Route53Client) changeARecord(ctx context.Context, action r53types.ChangeAction, domain, ip string) error {
	_, err := c.API.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(c.HostedZoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Changes: []r53types.Change{
				{
					Action: action,
					ResourceRecordSet: &r53types.ResourceRecordSet{
						Name: aws.String(domain),
						Type: r53types.RRTypeA,
						TTL:  aws.Int64(dnsRecordTTL),
						ResourceRecords: []r53types.ResourceRecord{
							{Value: aws.String(ip)},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%s A record %s: %w", action, domain, err)
	}
	return nil
}
