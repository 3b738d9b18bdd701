package dto

import (
	"errors"
	"io"
	"net/http"
	"time"
)

var ErrNilReqConfig = errors.New("nil RequestConfig provided")

// MultipartFile is a single file part sent as multipart/form-data.
type MultipartFile struct {
	// Field form field name, "file" for the platform endpoints
	Field       string
	FileName    string
	ContentType string
	Reader      io.Reader
}

// RequestConfig describes one platform call relative to the configured base URL.
type RequestConfig struct {
	Method string `json:"method" yaml:"method"`
	// Path relative endpoint path, may carry a query string
	Path    string            `json:"path" yaml:"path"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	// Body any JSON encodable value
	Body      any            `json:"body,omitempty" yaml:"body,omitempty"`
	Multipart *MultipartFile `json:"-" yaml:"-"`
	// Stream leaves the response body open in Response.Stream
	Stream bool `json:"stream" yaml:"stream"`
	// Timeout overrides the client timeout when positive
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
	TaskName string        `json:"task_name" yaml:"task_name"`
}

func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		Method:  http.MethodGet,
		Headers: make(map[string]string),
	}
}

// NewRequestConfig is a shorthand for DefaultRequestConfig().WithMethod(method).WithPath(path).
func NewRequestConfig(method, path string) *RequestConfig {
	cfg := DefaultRequestConfig()
	return cfg.WithMethod(method).WithPath(path)
}

func (c *RequestConfig) WithMethod(method string) *RequestConfig {
	c.Method = method
	return c
}

func (c *RequestConfig) WithPath(path string) *RequestConfig {
	c.Path = path
	return c
}

func (c *RequestConfig) WithHeader(key, value string) *RequestConfig {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[key] = value
	return c
}

func (c *RequestConfig) WithHeaders(headers map[string]string) *RequestConfig {
	for k, v := range headers {
		c.WithHeader(k, v)
	}
	return c
}

func (c *RequestConfig) WithBody(body any) *RequestConfig {
	c.Body = body
	return c
}

func (c *RequestConfig) WithMultipart(file *MultipartFile) *RequestConfig {
	c.Multipart = file
	return c
}

func (c *RequestConfig) WithStream(stream bool) *RequestConfig {
	c.Stream = stream
	return c
}

func (c *RequestConfig) WithTimeout(duration time.Duration) *RequestConfig {
	c.Timeout = duration
	return c
}

func (c *RequestConfig) WithTaskName(name string) *RequestConfig {
	c.TaskName = name
	return c
}

// Clone returns a copy with its own header map. Body and Multipart are shared.
func (c *RequestConfig) Clone() *RequestConfig {
	out := *c
	out.Headers = make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		out.Headers[k] = v
	}
	return &out
}
