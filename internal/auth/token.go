package auth

import (
	"fmt"
	"time"

	"github.com/fivetwenty-io/workos-client/internal/constants"
	"github.com/golang-jwt/jwt/v5"
)

// expiryBuffer treats tokens this close to expiry as already expired.
const expiryBuffer = 30 * time.Second

// AccessTokenClaims are the claims WorkOS puts in a user access token.
type AccessTokenClaims struct {
	jwt.RegisteredClaims

	SessionID      string   `json:"sid,omitempty"`
	OrganizationID string   `json:"org_id,omitempty"`
	Role           string   `json:"role,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
}

// Token is a decoded user access token.
type Token struct {
	AccessToken    string    `json:"access_token"              yaml:"access_token"`
	UserID         string    `json:"user_id"                   yaml:"user_id"`
	SessionID      string    `json:"session_id,omitempty"      yaml:"session_id,omitempty"`
	OrganizationID string    `json:"organization_id,omitempty" yaml:"organization_id,omitempty"`
	Role           string    `json:"role,omitempty"            yaml:"role,omitempty"`
	Permissions    []string  `json:"permissions,omitempty"     yaml:"permissions,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"                yaml:"expires_at"`
}

// Valid reports whether the token is present and not about to expire.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(expiryBuffer).Before(t.ExpiresAt)
}

// ParseAccessToken decodes the claims of an access token for display. The
// signature is not verified; never use the result for authorization decisions.
func ParseAccessToken(raw string) (*Token, error) {
	var claims AccessTokenClaims

	_, _, err := jwt.NewParser().ParseUnverified(raw, &claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidJWTFormat, err)
	}

	if claims.ExpiresAt == nil {
		return nil, constants.ErrNoExpirationClaim
	}

	return &Token{
		AccessToken:    raw,
		UserID:         claims.Subject,
		SessionID:      claims.SessionID,
		OrganizationID: claims.OrganizationID,
		Role:           claims.Role,
		Permissions:    claims.Permissions,
		ExpiresAt:      claims.ExpiresAt.Time,
	}, nil
}
