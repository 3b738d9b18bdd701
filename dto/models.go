package dto

import (
	"io"
	"net/http"
	"time"
)

type TransferStatus string

const (
	IN_PROGRESS TransferStatus = "in_progress"
	COMPLETE    TransferStatus = "complete"
	ERROR       TransferStatus = "error"
	STOPPED     TransferStatus = "stopped"
)

type TransferNotification struct {
	// Source platform UID or object URL being transferred
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	// Status MetaType of message
	Status TransferStatus `json:"status" yaml:"status"`
	// Percentage completion status as a percentage
	Percentage float64 `json:"percentage" yaml:"percentage"`
	// TotalSize length content in bytes. The value -1 indicates that the length is unknown
	TotalSize int64 `json:"total_size,omitempty" yaml:"total_size,omitempty"`
	// Downloaded bytes transferred so far, in either direction
	Downloaded int64 `json:"downloaded,omitempty" yaml:"downloaded,omitempty"`
}

// IsTerminal reports whether no further updates follow this one.
func (n TransferNotification) IsTerminal() bool {
	return n.Status == COMPLETE || n.Status == ERROR || n.Status == STOPPED
}

type Response struct {
	StatusCode int
	Headers    http.Header
	// Body is empty when the request asked for a stream
	Body []byte
	// Stream is set only for streaming requests. The caller must close it.
	Stream io.ReadCloser
}

// Close releases the stream of a streaming response, if any.
func (r Response) Close() error {
	if r.Stream == nil {
		return nil
	}
	return r.Stream.Close()
}

// ServiceState is a read only snapshot of a configured facade.
type ServiceState struct {
	BaseURL        string                          `json:"server" yaml:"server"`
	Username       string                          `json:"username" yaml:"username"`
	Authenticated  bool                            `json:"authenticated" yaml:"authenticated"`
	UserAgent      string                          `json:"user_agent" yaml:"user_agent"`
	ExtraHeaders   ExtraHeaders                    `json:"extra_headers,omitempty" yaml:"extra_headers,omitempty"`
	RequestTimeout time.Duration                   `json:"request_timeout" yaml:"request_timeout"`
	DownloadDir    string                          `json:"download_dir" yaml:"download_dir"`
	Transfers      map[string]TransferNotification `json:"transfers,omitempty" yaml:"transfers,omitempty"`
}
