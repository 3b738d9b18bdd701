package s3client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

type Middleware func(ctx context.Context, req *S3Request) error

// S3ClientConfig defines the static properties of the archive store.
type S3ClientConfig struct {
	Region      string `yaml:"region" validate:"required"`
	Credentials aws.CredentialsProvider
	Middlewares []Middleware
	// ForcePathStyle is required by most S3 compatible stores (minio, localstack)
	ForcePathStyle bool   `yaml:"force_path_style"`
	Endpoint       string `yaml:"endpoint"` // optional custom endpoint
}

func DefaultS3ClientConfig(region string) S3ClientConfig {
	return S3ClientConfig{Region: region, Middlewares: []Middleware{}}
}

func (c *S3ClientConfig) WithMiddleware(m ...Middleware) *S3ClientConfig {
	c.Middlewares = append(c.Middlewares, m...)
	return c
}

func (c *S3ClientConfig) WithEndpoint(endpoint string, pathStyle bool) *S3ClientConfig {
	c.Endpoint = endpoint
	c.ForcePathStyle = pathStyle
	return c
}

func (c *S3ClientConfig) WithCredentials(provider aws.CredentialsProvider) *S3ClientConfig {
	c.Credentials = provider
	return c
}
