package walacor

import (
	"context"

	"github.com/walacor/walacor-go/dto"
)

// State returns a snapshot of the current configuration, session and
// download progress. The password is never included.
func (s *Service) State() (*dto.ServiceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, dto.ErrNotInitialized
	}
	st := &dto.ServiceState{
		BaseURL:        s.cfg.BaseURL,
		Username:       s.cfg.Username,
		Authenticated:  s.client.HasToken(),
		UserAgent:      s.cfg.UserAgent,
		ExtraHeaders:   s.cfg.ExtraHeaders,
		RequestTimeout: s.cfg.RequestTimeout,
		DownloadDir:    s.cfg.DownloadDir,
	}
	if s.files != nil {
		st.Transfers = s.files.TransferState()
	}
	return st, nil
}

// Hydrate logs in eagerly so configuration problems surface at startup.
func (s *Service) Hydrate(ctx context.Context) error {
	a, err := s.Auth()
	if err != nil {
		return err
	}
	return a.Authenticate(ctx)
}
