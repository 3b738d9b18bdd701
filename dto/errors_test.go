package dto

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Messages_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "http status",
			err:  &APIConnectionError{StatusCode: 503, Reason: "Service Unavailable"},
			want: "HTTP Error 503: Service Unavailable",
		},
		{
			name: "auth status",
			err:  &AuthenticationError{StatusCode: 403},
			want: "authentication failed with status code 403",
		},
		{
			name: "auth reason",
			err:  &AuthenticationError{Reason: "no api_token in response"},
			want: "authentication failed: no api_token in response",
		},
		{
			name: "bad request",
			err:  &BadRequestError{Reason: "InvalidETId", Message: "unknown", Code: 400},
			want: "bad request (400) InvalidETId: unknown",
		},
		{
			name: "file op",
			err:  &FileRequestError{Op: "verify", Err: errors.New("boom")},
			want: "file verify failed: boom",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("got=%q want %q", got, tt.want)
			}
		})
	}
}

func TestErrors_UnwrapChain(t *testing.T) {
	t.Parallel()

	inner := &APIConnectionError{Err: errors.New("dial tcp: refused")}
	wrapped := fmt.Errorf("list files: %w", &FileRequestError{Op: "download", Err: inner})

	var conn *APIConnectionError
	if !errors.As(wrapped, &conn) {
		t.Fatalf("expected APIConnectionError in chain")
	}
	var fileErr *FileRequestError
	if !errors.As(wrapped, &fileErr) || fileErr.Op != "download" {
		t.Fatalf("expected FileRequestError with op download, got %v", fileErr)
	}
}
