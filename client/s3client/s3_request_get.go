package s3client

import (
	"context"
	"fmt"
	"io"
	"strings"
)

func (c *S3Client) doGet(ctx context.Context, r *S3Request) (Object, error) {
	out, err := c.client.GetObject(ctx, r.GetInput)
	if err != nil {
		return Object{}, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Object{}, fmt.Errorf("read s3 object: %w", err)
	}

	// S3 lowercases user metadata keys on the way back
	md := make(map[string]string, len(out.Metadata))
	for k, v := range out.Metadata {
		md[strings.ToLower(k)] = v
	}
	return Object{Body: data, Metadata: md}, nil
}
