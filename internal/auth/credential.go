package auth

import (
	"context"

	"github.com/fivetwenty-io/workos-client/internal/constants"
)

// CredentialProvider supplies the Bearer credential for a request.
type CredentialProvider interface {
	Credential(ctx context.Context) (string, error)
}

// StaticCredential is an API key fixed at construction. It has no setters, so a
// client holding it can be shared between goroutines.
type StaticCredential struct {
	key string
}

// NewStaticCredential creates a credential provider for key.
func NewStaticCredential(key string) *StaticCredential {
	return &StaticCredential{key: key}
}

// Credential implements CredentialProvider.
func (c *StaticCredential) Credential(ctx context.Context) (string, error) {
	if c.key == "" {
		return "", constants.ErrNoCredential
	}

	return c.key, nil
}
