package dto

import (
	"context"
	"time"
)

// Requester issues one authenticated platform call. The service packages
// depend on this rather than on a concrete transport.
type Requester interface {
	Request(ctx context.Context, cfg *RequestConfig) (Response, error)
}

// Authenticator is a Requester that can also log in on demand.
type Authenticator interface {
	Requester
	Authenticate(ctx context.Context) error
	HasToken() bool
}

// AuthProvider obtains a session token from the platform.
// Refresh may fall back to a fresh Authenticate when the platform has no
// refresh flow.
type AuthProvider interface {
	Authenticate(ctx context.Context) (TokenInfo, error)
	Refresh(ctx context.Context, old TokenInfo) (TokenInfo, error)
}

// RequestObserver receives one callback per finished HTTP exchange and per
// login attempt.
type RequestObserver interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
	ObserveAuth(success bool)
}
