// Package auth exposes the explicit login of the shared transport.
package auth

import (
	"context"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/relays"
)

type Service struct {
	client dto.Authenticator
	relay  relayDTO.RelayInterface
}

func NewService(client dto.Authenticator, relay relayDTO.RelayInterface) *Service {
	return &Service{client: client, relay: relay}
}

// Authenticate logs in now instead of on the first request. A failure keeps
// whatever session was held before.
func (s *Service) Authenticate(ctx context.Context) error {
	if err := s.client.Authenticate(ctx); err != nil {
		s.relay.Error(relays.RlyService{Service: "auth", Op: "Authenticate", Msg: "Authentication failed", Err: err})
		return err
	}
	return nil
}

// HasToken reports whether a session token is held. The token itself is
// never exposed.
func (s *Service) HasToken() bool {
	return s.client.HasToken()
}
