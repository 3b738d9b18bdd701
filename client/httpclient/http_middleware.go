package httpclient

import (
	"context"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/walacor/walacor-go/relays"
)

// StaticHeaderMiddleware injects static headers into every request.
// Headers the caller set explicitly are left alone.
func StaticHeaderMiddleware(headers map[string]string) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		for k, v := range headers {
			if _, ok := r.Headers[k]; ok {
				continue
			}
			r.Headers[k] = v
		}
		return nil
	}
}

// LoggingMiddleware emits one debug event per outgoing call.
func LoggingMiddleware(relay relayDTO.RelayInterface) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		relay.Debug(relays.RlyTransport{
			RequestID: r.ID,
			Method:    r.Method,
			Path:      r.Path,
			Msg:       "[HTTP] " + r.Method + " " + r.Path,
		})
		return nil
	}
}
