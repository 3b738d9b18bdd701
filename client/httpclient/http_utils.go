package httpclient

import (
	"context"
	"fmt"

	"github.com/walacor/walacor-go/dto"
)

// ensureToken verifies if an active token is valid, logging in if necessary.
func (c *HTTPClient) ensureToken(ctx context.Context) error {
	c.tokenMu.RLock()
	valid := !c.token.IsExpired(c.cfg.RefreshBuffer)
	c.tokenMu.RUnlock()
	if valid {
		return nil
	}
	return c.refreshToken(ctx, "")
}

// refreshToken replaces the session under the write lock.
//
// stale is the token a caller saw rejected. When another caller already
// swapped it out the refresh is skipped, so a burst of 401s costs one login.
// A failed refresh leaves the stored token untouched.
func (c *HTTPClient) refreshToken(ctx context.Context, stale string) error {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if !c.token.IsExpired(c.cfg.RefreshBuffer) && (stale == "" || c.token.AccessToken != stale) {
		return nil
	}
	return c.fetchTokenLocked(ctx)
}

// Authenticate forces a fresh login and stores the new session.
func (c *HTTPClient) Authenticate(ctx context.Context) error {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	return c.fetchTokenLocked(ctx)
}

// HasToken reports whether a session token is currently held.
func (c *HTTPClient) HasToken() bool {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.token.AccessToken != ""
}

// fetchTokenLocked obtains a token from OAuth2, the AuthProvider or the
// platform login, in that order of precedence. Callers hold tokenMu.
func (c *HTTPClient) fetchTokenLocked(ctx context.Context) error {
	tok, err := c.obtainToken(ctx)
	if c.cfg.Observer != nil {
		c.cfg.Observer.ObserveAuth(err == nil)
	}
	if err != nil {
		return err
	}
	tok.TokenType = normalizeAuthType(tok.TokenType)
	c.token = tok
	return nil
}

func (c *HTTPClient) obtainToken(ctx context.Context) (dto.TokenInfo, error) {
	// Case 1: OAuth2 integration
	if c.cfg.OAuthSource != nil {
		oauthTok, err := c.cfg.OAuthSource.Token()
		if err != nil {
			return dto.TokenInfo{}, fmt.Errorf("oauth2 token fetch: %w", err)
		}
		return dto.TokenInfo{
			AccessToken: oauthTok.AccessToken,
			TokenType:   oauthTok.TokenType,
			Expiry:      oauthTok.Expiry,
		}, nil
	}

	// Case 2: custom AuthProvider
	if c.cfg.AuthProvider != nil {
		var newTok dto.TokenInfo
		var err error
		if c.token.AccessToken == "" {
			newTok, err = c.cfg.AuthProvider.Authenticate(ctx)
		} else {
			newTok, err = c.cfg.AuthProvider.Refresh(ctx, c.token)
			if err != nil {
				newTok, err = c.cfg.AuthProvider.Authenticate(ctx)
			}
		}
		if err != nil {
			return dto.TokenInfo{}, fmt.Errorf("auth provider refresh: %w", err)
		}
		return newTok, nil
	}

	// Case 3: platform login with the configured credentials
	return c.LoginProvider().Authenticate(ctx)
}
