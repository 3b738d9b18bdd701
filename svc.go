// Package walacor is the entry point of the SDK. A Service owns one
// authenticated transport and hands out the typed services built on it.
package walacor

import (
	"sync"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/walacor/walacor-go/auth"
	"github.com/walacor/walacor-go/client/httpclient"
	"github.com/walacor/walacor-go/config"
	"github.com/walacor/walacor-go/data"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/file"
	"github.com/walacor/walacor-go/schema"
)

// Service is safe for concurrent use. The zero value is not initialized and
// every accessor returns dto.ErrNotInitialized.
type Service struct {
	mu     sync.Mutex
	cfg    *config.Config
	relay  relayDTO.RelayInterface
	opts   options
	client *httpclient.HTTPClient

	auth   *auth.Service
	schema *schema.Service
	data   *data.Service
	files  *file.Service
}

func (s *Service) Auth() (*auth.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, dto.ErrNotInitialized
	}
	if s.auth == nil {
		s.auth = auth.NewService(s.client, s.relay)
	}
	return s.auth, nil
}

func (s *Service) Schema() (*schema.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, dto.ErrNotInitialized
	}
	if s.schema == nil {
		s.schema = schema.NewService(s.client, s.relay)
	}
	return s.schema, nil
}

func (s *Service) Data() (*data.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, dto.ErrNotInitialized
	}
	if s.data == nil {
		s.data = data.NewService(s.client, s.relay)
	}
	return s.data, nil
}

func (s *Service) Files() (*file.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, dto.ErrNotInitialized
	}
	if s.files == nil {
		s.files = file.NewService(s.client, s.cfg)
		if s.opts.archive != nil {
			s.files.WithArchive(s.opts.archive)
		}
	}
	return s.files, nil
}

// ChangeServer points the SDK at another platform. Cached services and the
// session are dropped.
func (s *Service) ChangeServer(server string) error {
	return s.reconfigure(func(cfg *config.Config) { cfg.WithBaseURL(server) })
}

// ChangeCred switches user. Cached services and the session are dropped.
func (s *Service) ChangeCred(username, password string) error {
	return s.reconfigure(func(cfg *config.Config) { cfg.WithCredentials(username, password) })
}

// ChangeAll switches both platform and user.
func (s *Service) ChangeAll(server, username, password string) error {
	return s.reconfigure(func(cfg *config.Config) {
		cfg.WithBaseURL(server).WithCredentials(username, password)
	})
}

func (s *Service) reconfigure(apply func(cfg *config.Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return dto.ErrNotInitialized
	}
	next := s.cfg.Clone()
	apply(next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.cfg = next
	s.buildLocked()
	return nil
}
