// Package awsutil provides utilities for loading AWS configuration and clients.
package awsutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Clients bundles the AWS service clients the application uses.
type Clients struct {
	Config   aws.Config
	Endpoint string
	DynamoDB *dynamodb.Client
	S3       *s3.Client
	Presign  *s3.PresignClient
}

// Load loads the AWS configuration for region. A non-empty endpoint (e.g. a
// LocalStack URL) overrides every service endpoint.
func Load(ctx context.Context, region, endpoint string) (aws.Config, error) {
	if endpoint == "" {
		return awsCfg.LoadDefaultConfig(ctx, awsCfg.WithRegion(region))
	}
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, r string, _ ...any) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               endpoint,
			HostnameImmutable: true,
			PartitionID:       "aws",
		}, nil
	})
	return awsCfg.LoadDefaultConfig(ctx, awsCfg.WithRegion(region), awsCfg.WithEndpointResolverWithOptions(resolver))
}

// NewClients loads the configuration and builds every client from it.
func NewClients(ctx context.Context, region, endpoint string) (*Clients, error) {
	cfg, err := Load(ctx, region, endpoint)
	if err != nil {
		return nil, err
	}
	s3c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// LocalStack serves buckets by path, not virtual host
		o.UsePathStyle = endpoint != ""
	})
	return &Clients{
		Config:   cfg,
		Endpoint: endpoint,
		DynamoDB: dynamodb.NewFromConfig(cfg),
		S3:       s3c,
		Presign:  s3.NewPresignClient(s3c),
	}, nil
}
