package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/auth"
	"github.com/mmynk/ekkora/internal/identity"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityKey is the context key for the authenticated identity.
const identityKey contextKey = "identity"

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity extracts the authenticated identity from the context.
// Returns nil if the request is unauthenticated.
func GetIdentity(ctx context.Context) *identity.Identity {
	id, _ := ctx.Value(identityKey).(*identity.Identity)
	return id
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	if id := GetIdentity(ctx); id != nil {
		return id.UID
	}
	return ""
}

// AuthInterceptor verifies bearer tokens on unary and streaming calls and
// stores the identity in the request context. Public procedures accept a
// missing or invalid token and run unauthenticated.
type AuthInterceptor struct {
	verifier auth.TokenVerifier
	public   map[string]bool
}

var _ connect.Interceptor = (*AuthInterceptor)(nil)

// NewAuthInterceptor creates an interceptor that requires a valid token on
// every procedure except the public ones.
func NewAuthInterceptor(verifier auth.TokenVerifier, public ...string) *AuthInterceptor {
	i := &AuthInterceptor{verifier: verifier, public: make(map[string]bool, len(public))}
	for _, p := range public {
		i.public[p] = true
	}
	return i
}

// WrapUnary implements connect.Interceptor.
func (i *AuthInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		ctx, err := i.authenticate(ctx, req.Spec().Procedure, req.Header())
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

// WrapStreamingClient implements connect.Interceptor.
func (i *AuthInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

// WrapStreamingHandler implements connect.Interceptor.
func (i *AuthInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		ctx, err := i.authenticate(ctx, conn.Spec().Procedure, conn.RequestHeader())
		if err != nil {
			return err
		}
		return next(ctx, conn)
	}
}

func (i *AuthInterceptor) authenticate(ctx context.Context, procedure string, header http.Header) (context.Context, error) {
	public := i.public[procedure]

	token, err := bearerToken(header)
	if err != nil {
		if public {
			return ctx, nil
		}
		return ctx, connect.NewError(connect.CodeUnauthenticated, err)
	}

	id, err := i.verifier.Verify(ctx, token)
	if err != nil {
		if public {
			return ctx, nil
		}
		return ctx, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	return WithIdentity(ctx, id), nil
}

// bearerToken parses an "Authorization: Bearer <token>" header.
func bearerToken(header http.Header) (string, error) {
	authHeader := header.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.Join(auth.ErrInvalidToken, errors.New("expected a Bearer token"))
	}
	return strings.TrimSpace(token), nil
}
