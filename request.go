package walacor

import (
	"context"
	"net/http"

	"github.com/walacor/walacor-go/dto"
)

// Request sends a raw call through the authenticated transport, for
// endpoints the typed services do not cover.
func (s *Service) Request(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return dto.Response{}, dto.ErrNotInitialized
	}
	if cfg == nil {
		return dto.Response{}, dto.ErrNilReqConfig
	}
	req := cfg.Clone()
	if req.TaskName == "" {
		req.TaskName = req.Method + " " + req.Path
	}
	return client.Request(ctx, req)
}

func (s *Service) Get(ctx context.Context, path string) (dto.Response, error) {
	return s.Request(ctx, dto.NewRequestConfig(http.MethodGet, path))
}

func (s *Service) Post(ctx context.Context, path string, payload any) (dto.Response, error) {
	return s.Request(ctx, dto.NewRequestConfig(http.MethodPost, path).WithBody(payload))
}
