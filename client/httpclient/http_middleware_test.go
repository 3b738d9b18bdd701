package httpclient

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/relays"
)

func Test_StaticHeaderMiddleware(t *testing.T) {
	mw := StaticHeaderMiddleware(map[string]string{"X-A": "1", "X-B": "2"})
	r := &HTTPRequest{Headers: map[string]string{"X-B": "caller"}}
	require.NoError(t, mw(context.Background(), r))
	assert.Equal(t, "1", r.Header("X-A"))
	assert.Equal(t, "caller", r.Header("X-B"))

	empty := &HTTPRequest{}
	require.NoError(t, mw(context.Background(), empty))
	assert.Equal(t, "2", empty.Header("X-B"))
}

func Test_LoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	mw := LoggingMiddleware(relays.NewZerologRelay(&buf, "debug", false))
	r := newHTTPRequest(dto.NewRequestConfig("POST", "query/get"))
	require.NoError(t, mw(context.Background(), r))
	out := buf.String()
	assert.Contains(t, out, `"path":"query/get"`)
	assert.Contains(t, out, r.ID)
	assert.True(t, strings.Contains(out, "[HTTP] POST query/get"))
}

func Test_HTTPRequest_FinalizeBody(t *testing.T) {
	r := newHTTPRequest(dto.NewRequestConfig("POST", "x").WithBody(map[string]int{"a": 1}))
	require.NoError(t, r.FinalizeBody())
	assert.JSONEq(t, `{"a":1}`, string(r.BodyBytes))
	assert.Equal(t, "application/json", r.ContentType)

	// already finalized bytes are kept
	r.Body = map[string]int{"b": 2}
	require.NoError(t, r.FinalizeBody())
	assert.JSONEq(t, `{"a":1}`, string(r.BodyBytes))

	get := newHTTPRequest(dto.NewRequestConfig("", "x"))
	require.NoError(t, get.FinalizeBody())
	assert.Nil(t, get.BodyBytes)
	assert.Equal(t, "application/json", get.ContentType)
	assert.Equal(t, "GET", get.Method)

	bad := newHTTPRequest(dto.NewRequestConfig("POST", "x").WithBody(make(chan int)))
	assert.Error(t, bad.FinalizeBody())
}

func Test_newHTTPRequest_copiesHeaders(t *testing.T) {
	cfg := dto.NewRequestConfig("GET", "x").WithHeader("ETId", "1")
	r := newHTTPRequest(cfg)
	r.SetHeader("ETId", "2")
	assert.Equal(t, "1", cfg.Headers["ETId"])
	assert.NotEmpty(t, r.ID)
}
