package s3client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API This internal interface abstracts the s3 client for easier testing
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Client archives verified platform files in an S3 compatible bucket.
type S3Client struct {
	cfg    *S3ClientConfig
	client s3API
}

func NewS3Client(ctx context.Context, cfg *S3ClientConfig) (*S3Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Credentials != nil {
		opts = append(opts, awsconfig.WithCredentialsProvider(cfg.Credentials))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Client{
		cfg:    cfg,
		client: client,
	}, nil
}

// PutObject uploads body under bucket/key with the given user metadata.
func (c *S3Client) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error {
	cfg := &S3RequestConfig{
		Operation:   OpPut,
		Bucket:      bucket,
		Key:         key,
		Body:        body,
		ContentType: contentType,
	}
	if len(metadata) > 0 {
		cfg.ExtraOpts = map[string]any{"metadata": metadata}
	}
	_, err := c.Process(ctx, cfg)
	return err
}

// GetObject downloads bucket/key and returns its body and user metadata.
func (c *S3Client) GetObject(ctx context.Context, bucket, key string) ([]byte, map[string]string, error) {
	obj, err := c.Process(ctx, &S3RequestConfig{Operation: OpGet, Bucket: bucket, Key: key})
	if err != nil {
		return nil, nil, err
	}
	return obj.Body, obj.Metadata, nil
}
