// Where: internal/infra/cfn/aws_factory.go
// What: S3 client construction for remote templates.
// Why: Encapsulate SDK configuration, including local endpoints for testing stacks.
package cfn

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options tunes client construction. Empty fields fall back to the
// default AWS credential and region chain.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds an S3 client from the default config chain.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	loaders := []func(*config.LoadOptions) error{}
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region != "" {
		loaders = append(loaders, config.WithRegion(region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(options *s3.Options) {
		if opts.Endpoint != "" {
			options.BaseEndpoint = aws.String(opts.Endpoint)
			options.UsePathStyle = true
		}
	}), nil
}

// OpenStore returns an S3Store for s3:// locations and a FileStore otherwise.
func OpenStore(ctx context.Context, location string, opts S3Options) (Store, error) {
	if !IsS3URI(location) {
		return FileStore{Path: location}, nil
	}
	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}
	client, err := NewS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}
	return S3Store{Client: client, Bucket: bucket, Key: key}, nil
}
