package dto

import (
	"time"
)

// TokenInfo represents the active platform session.
type TokenInfo struct {
	AccessToken string
	// TokenType is sent as a prefix of the Authorization header when set.
	// Platform logins leave it empty and the raw token is sent.
	TokenType string
	// Expiry time. Optional, platform sessions carry none.
	Expiry time.Time
}

// IsExpired returns true if the token is absent or close to or past expiry.
func (t *TokenInfo) IsExpired(buffer time.Duration) bool {
	if t.AccessToken == "" {
		return true
	}
	if t.Expiry.IsZero() {
		// Sessions with no expiry are valid until the platform rejects them
		return false
	}
	return time.Now().After(t.Expiry.Add(-buffer))
}

// AuthorizationValue is the value of the Authorization header for this token.
func (t *TokenInfo) AuthorizationValue() string {
	if t.TokenType == "" {
		return t.AccessToken
	}
	return t.TokenType + " " + t.AccessToken
}
