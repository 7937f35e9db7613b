package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/auth"
	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/storage"
	"github.com/mmynk/ekkora/pkg/api"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	repo          *storage.Repository
	logger        *slog.Logger
}

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, repo *storage.Repository, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		repo:          repo,
		logger:        logger,
	}
}

// SignUp creates a new identity and returns a session token.
func (s *AuthService) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	email := identity.NormalizeEmail(req.Msg.Email)
	s.logger.Info("SignUp request received", "email", email)

	if email == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, identity.ErrInvalidCredential)
	}

	id, err := s.authenticator.Register(ctx, email, strings.TrimSpace(req.Msg.DisplayName), req.Msg.Password)
	if err != nil {
		s.logger.Warn("SignUp failed", "email", email, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(id)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", id.UID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User signed up", "user_id", id.UID, "email", email)
	return connect.NewResponse(&api.SignUpResponse{User: userToAPI(id), Token: token}), nil
}

// SignIn verifies credentials and returns a session token.
func (s *AuthService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	email := identity.NormalizeEmail(req.Msg.Email)
	s.logger.Info("SignIn request received", "email", email)

	if email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, identity.ErrInvalidCredential)
	}

	id, err := s.authenticator.Authenticate(ctx, email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("SignIn failed", "email", email, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(id)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", id.UID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User signed in", "user_id", id.UID)
	return connect.NewResponse(&api.SignInResponse{User: userToAPI(id), Token: token}), nil
}

// GetCurrentUser returns the caller's identity and, once it exists, profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("GetCurrentUser request received", "user_id", id.UID)

	profile, err := s.repo.GetProfile(ctx, id.UID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{
		User:    userToAPI(id),
		Profile: profileToAPI(profile),
	}), nil
}
