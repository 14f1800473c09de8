package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DefaultRegion is the region whose bucket creation calls must omit the
// location constraint.
const DefaultRegion = "us-east-1"

// AWSClients implements Compute and Storage over EC2 and S3, using the
// default credential and region resolution chain (environment, shared
// config files, instance role).
type AWSClients struct {
	ec2    *ec2.Client
	s3     *s3.Client
	region string
}

// NewAWSClients loads the default AWS configuration and builds service
// clients from it. Credentials must be configured before running; this
// only fails when the chain itself cannot be resolved.
func NewAWSClients(ctx context.Context) (*AWSClients, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &AWSClients{
		ec2:    ec2.NewFromConfig(cfg),
		s3:     s3.NewFromConfig(cfg),
		region: cfg.Region,
	}, nil
}

// Region returns the region the credential chain resolved.
func (c *AWSClients) Region() string {
	return c.region
}

// ListInstances returns every EC2 instance in the region, with the Name
// tag pulled out when present.
func (c *AWSClients) ListInstances(ctx context.Context) ([]Instance, error) {
	out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instances: %w", err)
	}

	var instances []Instance
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			i := Instance{
				ID:   aws.ToString(inst.InstanceId),
				Type: string(inst.InstanceType),
			}
			if inst.State != nil {
				i.State = string(inst.State.Name)
			}
			for _, tag := range inst.Tags {
				if aws.ToString(tag.Key) == "Name" {
					i.Name = aws.ToString(tag.Value)
				}
			}
			instances = append(instances, i)
		}
	}
	return instances, nil
}

// StartInstance sends a start request for the named instance and
// returns the state the API reports back.
func (c *AWSClients) StartInstance(ctx context.Context, id string) (string, error) {
	out, err := c.ec2.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return "", fmt.Errorf("failed to start instance %s: %w", id, err)
	}

	if len(out.StartingInstances) == 0 || out.StartingInstances[0].CurrentState == nil {
		return "", nil
	}
	return string(out.StartingInstances[0].CurrentState.Name), nil
}

// StopInstance sends a stop request for the named instance and returns
// the state the API reports back.
func (c *AWSClients) StopInstance(ctx context.Context, id string) (string, error) {
	out, err := c.ec2.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return "", fmt.Errorf("failed to stop instance %s: %w", id, err)
	}

	if len(out.StoppingInstances) == 0 || out.StoppingInstances[0].CurrentState == nil {
		return "", nil
	}
	return string(out.StoppingInstances[0].CurrentState.Name), nil
}

// ListBuckets returns every bucket owned by the account.
func (c *AWSClients) ListBuckets(ctx context.Context) ([]Bucket, error) {
	out, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	var buckets []Bucket
	for _, b := range out.Buckets {
		bucket := Bucket{Name: aws.ToString(b.Name)}
		if b.CreationDate != nil {
			bucket.CreatedAt = *b.CreationDate
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// CreateBucket creates the named bucket in the client's region. Every
// region except us-east-1 requires an explicit location constraint;
// us-east-1 rejects one.
func (c *AWSClients) CreateBucket(ctx context.Context, name string) (string, error) {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(name),
	}
	if c.region != "" && c.region != DefaultRegion {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.region),
		}
	}

	out, err := c.s3.CreateBucket(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return aws.ToString(out.Location), nil
}
