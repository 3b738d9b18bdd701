package s3client

import (
	"context"
	"fmt"
	"strings"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/walacor/walacor-go/relays"
)

// StaticS3MetaMiddleware adds default metadata to each S3 put operation.
// Metadata set by the caller wins.
func StaticS3MetaMiddleware(meta map[string]string) Middleware {
	return func(ctx context.Context, r *S3Request) error {
		if r.Operation != OpPut {
			return nil
		}
		if r.ExtraOpts == nil {
			r.ExtraOpts = map[string]any{}
		}

		md, _ := extractStringMap(r.ExtraOpts, "metadata")
		if md == nil {
			md = make(map[string]string)
		}
		for k, v := range meta {
			if _, ok := md[k]; ok {
				continue
			}
			md[k] = v
		}

		r.ExtraOpts["metadata"] = md
		return nil
	}
}

func LoggingMiddleware(relay relayDTO.RelayInterface) Middleware {
	return func(ctx context.Context, r *S3Request) error {
		relay.Debug(relays.RlyLog{Msg: fmt.Sprintf(
			"[S3] %s s3://%s/%s",
			strings.ToUpper(r.Operation),
			r.Bucket,
			r.Key,
		)})
		return nil
	}
}
