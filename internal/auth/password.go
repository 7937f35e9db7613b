package auth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/identity"
)

// Ensure PasswordAuthenticator implements the credential contracts
var (
	_ Authenticator        = (*PasswordAuthenticator)(nil)
	_ identity.Credentials = (*PasswordAuthenticator)(nil)
)

// PasswordAuthenticator implements password-based authentication using
// bcrypt. Credentials are stored at identities/{email}.
type PasswordAuthenticator struct {
	docs docstore.Store

	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
}

const (
	// maxLimiters bounds how many emails are tracked at once.
	maxLimiters = 10_000
	// minLimiterIdle is the shortest time an untouched limiter is kept.
	minLimiterIdle = time.Minute
)

// NewPasswordAuthenticator creates a password authenticator. Sign-in attempts
// per email are limited to burst, refilled at limit per second. A limiter is
// dropped once it has been idle long enough to refill completely.
func NewPasswordAuthenticator(docs docstore.Store, limit rate.Limit, burst int) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		docs:     docs,
		limit:    limit,
		burst:    burst,
		limiters: expirable.NewLRU[string, *rate.Limiter](maxLimiters, nil, limiterIdle(limit, burst)),
	}
}

// limiterIdle is the time an empty limiter needs to refill to burst.
func limiterIdle(limit rate.Limit, burst int) time.Duration {
	idle := minLimiterIdle
	if limit > 0 && limit != rate.Inf {
		if refill := time.Duration(math.Round(float64(burst)/float64(limit))) * time.Second; refill > idle {
			idle = refill
		}
	}
	return idle
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return identity.ErrWeakPassword
	}
	return nil
}

// Register creates a new identity with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*identity.Identity, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, identity.ErrInvalidCredential
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	_, err := a.docs.Get(ctx, docstore.IdentityPath(email))
	if err == nil {
		return nil, identity.ErrEmailExists
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing identity: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := &identity.Identity{UID: uuid.New().String(), Email: email, DisplayName: displayName}
	err = a.docs.Create(ctx, docstore.IdentityPath(email), docstore.Fields{
		"uid":          id.UID,
		"email":        email,
		"displayName":  displayName,
		"passwordHash": string(hashedPassword),
		"createdAt":    docstore.ServerTimestamp,
	})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return nil, identity.ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return id, nil
}

// Authenticate verifies the email and password, returning the identity if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*identity.Identity, error) {
	email = identity.NormalizeEmail(email)
	if !a.limiter(email).Allow() {
		return nil, identity.ErrTooManyRequests
	}

	doc, err := a.docs.Get(ctx, docstore.IdentityPath(email))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, identity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	hash, _ := doc.Fields["passwordHash"].(string)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)); err != nil {
		return nil, identity.ErrInvalidCredential
	}

	uid, _ := doc.Fields["uid"].(string)
	name, _ := doc.Fields["displayName"].(string)
	return &identity.Identity{UID: uid, Email: email, DisplayName: name}, nil
}

// limiter returns the limiter of email. Re-adding refreshes its expiry, so
// only idle limiters age out.
func (a *PasswordAuthenticator) limiter(email string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.limiters.Get(email)
	if !ok {
		l = rate.NewLimiter(a.limit, a.burst)
	}
	a.limiters.Add(email, l)
	return l
}
