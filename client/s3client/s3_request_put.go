package s3client

import (
	"context"
	"fmt"
)

func (c *S3Client) doPut(ctx context.Context, r *S3Request) (Object, error) {
	_, err := c.client.PutObject(ctx, r.PutInput)
	if err != nil {
		return Object{}, fmt.Errorf("s3 put object: %w", err)
	}
	return Object{Metadata: r.PutInput.Metadata}, nil
}
