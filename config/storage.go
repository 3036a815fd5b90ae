package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UsesS3 reports whether recipe images are served from an S3 bucket.
func (a AssetsConfig) UsesS3() bool {
	return a.S3Bucket != ""
}

// NewS3Client initializes the S3 client from the default AWS credential chain
func NewS3Client(ctx context.Context, assets AssetsConfig) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{}
	if assets.S3Region != "" {
		opts = append(opts, config.WithRegion(assets.S3Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg), nil
}
