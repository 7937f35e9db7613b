// Package identity defines the identity collaborator: credential sign-in and
// sign-up, and a stream of session-change events. Session-change listeners
// receive the current identity, or nil when nobody is signed in.
package identity

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrUserNotFound      = errors.New("user not found")
	ErrTooManyRequests   = errors.New("too many sign-in attempts")
	ErrEmailExists       = errors.New("email already registered")
	ErrWeakPassword      = errors.New("password must be at least 8 characters")
)

// Identity is an authenticated user as reported by the provider.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// NormalizedEmail returns the lower-cased email used for every lookup.
func (i *Identity) NormalizedEmail() string {
	if i == nil {
		return ""
	}
	return NormalizeEmail(i.Email)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Provider is the identity collaborator contract.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, displayName, password string) (*Identity, error)
	SignOut(ctx context.Context) error

	// OnSessionChange registers fn and calls it once with the current
	// identity. The returned function unregisters fn.
	OnSessionChange(fn func(*Identity)) (unsubscribe func())
}
