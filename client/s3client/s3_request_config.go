package s3client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	OpGet = "get"
	OpPut = "put"
)

// S3RequestConfig defines the structure of an S3 request operation.
type S3RequestConfig struct {
	Operation string // "get" or "put"
	Bucket    string
	Key       string

	// Optional depending on operation
	Body        []byte
	ContentType string
	ExtraOpts   map[string]any
}

type S3Request struct {
	Operation string
	Bucket    string
	Key       string

	Body        []byte
	ContentType string

	ExtraOpts map[string]any

	// Deterministic prepared AWS inputs (built after middleware)
	PutInput *s3.PutObjectInput
	GetInput *s3.GetObjectInput
}

// Object is the outcome of one S3 operation.
type Object struct {
	Body     []byte
	Metadata map[string]string
}

func (c *S3RequestConfig) NewRequest(ctx context.Context) *S3Request {
	r := &S3Request{
		Operation:   c.Operation,
		Bucket:      c.Bucket,
		Key:         c.Key,
		Body:        c.Body,
		ContentType: c.ContentType,
		ExtraOpts:   make(map[string]any, len(c.ExtraOpts)),
	}
	for k, v := range c.ExtraOpts {
		r.ExtraOpts[k] = v
	}
	return r
}
