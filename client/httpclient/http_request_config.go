package httpclient

import (
	"time"

	"github.com/google/uuid"
	"github.com/walacor/walacor-go/dto"
)

// HTTPRequest is per-call mutable state built from an immutable dto.RequestConfig.
type HTTPRequest struct {
	// ID correlates log events of one call, retries included
	ID        string
	Method    string
	Path      string
	Headers   map[string]string
	Body      any
	Multipart *dto.MultipartFile
	Stream    bool
	Timeout   time.Duration
	// Finalized wire body, replayed as is on the 401 retry
	BodyBytes   []byte
	ContentType string
}

func newHTTPRequest(cfg *dto.RequestConfig) *HTTPRequest {
	r := &HTTPRequest{
		ID:        uuid.NewString(),
		Method:    cfg.Method,
		Path:      cfg.Path,
		Headers:   make(map[string]string, len(cfg.Headers)),
		Body:      cfg.Body,
		Multipart: cfg.Multipart,
		Stream:    cfg.Stream,
		Timeout:   cfg.Timeout,
	}
	if r.Method == "" {
		r.Method = "GET"
	}
	for k, v := range cfg.Headers {
		r.Headers[k] = v
	}
	return r
}

func (r *HTTPRequest) SetHeader(k, v string) {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[k] = v
}

func (r *HTTPRequest) Header(k string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers[k]
}
