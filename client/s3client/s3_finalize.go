package s3client

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Finalize builds the deterministic AWS SDK input struct for the operation.
// Call this exactly once after middleware has run and before executing.
func (r *S3Request) Finalize() error {
	r.PutInput = nil
	r.GetInput = nil

	if r.Bucket == "" || r.Key == "" {
		return fmt.Errorf("s3 %s: bucket and key are required", r.Operation)
	}

	switch r.Operation {
	case OpGet:
		r.GetInput = &s3.GetObjectInput{
			Bucket: aws.String(r.Bucket),
			Key:    aws.String(r.Key),
		}
		return nil

	case OpPut:
		in := &s3.PutObjectInput{
			Bucket:        aws.String(r.Bucket),
			Key:           aws.String(r.Key),
			Body:          bytes.NewReader(r.Body),
			ContentLength: aws.Int64(int64(len(r.Body))),
		}
		if r.ContentType != "" {
			in.ContentType = aws.String(r.ContentType)
		}
		// Convention: ExtraOpts["metadata"] can be map[string]string or map[string]any.
		if md, ok := extractStringMap(r.ExtraOpts, "metadata"); ok && len(md) > 0 {
			in.Metadata = md
		}
		r.PutInput = in
		return nil

	default:
		return fmt.Errorf("unsupported s3 operation: %s", r.Operation)
	}
}

// extractStringMap reads ExtraOpts[key] as either map[string]string or map[string]any
// with string values, returning a copy.
func extractStringMap(extra map[string]any, key string) (map[string]string, bool) {
	raw, ok := extra[key]
	if !ok || raw == nil {
		return nil, false
	}

	switch v := raw.(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true

	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			s, ok := val.(string)
			if !ok {
				continue
			}
			out[k] = s
		}
		return out, true

	default:
		return nil, false
	}
}
