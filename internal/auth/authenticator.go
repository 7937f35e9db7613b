package auth

import (
	"context"

	"github.com/mmynk/ekkora/internal/identity"
)

// Authenticator defines the interface for credential-based sign-in.
// Implementations also satisfy identity.Credentials.
type Authenticator interface {
	// Register creates a new identity with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*identity.Identity, error)

	// Authenticate verifies the credential and returns the identity.
	Authenticate(ctx context.Context, email, credential string) (*identity.Identity, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Identity, error)
}

// Chain tries each verifier in order and returns the first identity.
type Chain []TokenVerifier

// Verify implements TokenVerifier.
func (c Chain) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	err := ErrInvalidToken
	for _, v := range c {
		id, verr := v.Verify(ctx, token)
		if verr == nil {
			return id, nil
		}
		err = verr
	}
	return nil, err
}
