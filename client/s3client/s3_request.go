package s3client

import (
	"context"
	"errors"
	"fmt"
)

var ErrNilRequest = errors.New("nil S3RequestConfig provided")

// Process runs middlewares, finalizes the AWS input and executes it.
func (c *S3Client) Process(ctx context.Context, reqCfg *S3RequestConfig) (Object, error) {
	if reqCfg == nil {
		return Object{}, ErrNilRequest
	}
	r := reqCfg.NewRequest(ctx)

	for _, mw := range c.cfg.Middlewares {
		if err := mw(ctx, r); err != nil {
			return Object{}, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := r.Finalize(); err != nil {
		return Object{}, err
	}

	switch r.Operation {
	case OpGet:
		return c.doGet(ctx, r)
	case OpPut:
		return c.doPut(ctx, r)
	default:
		return Object{}, fmt.Errorf("unsupported s3 operation: %s", r.Operation)
	}
}
