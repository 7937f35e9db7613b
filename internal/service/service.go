// Package service implements the ekkora.v1 Connect services as thin adapters
// over the session resolver and the church workspace.
package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/auth"
	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/middleware"
	"github.com/mmynk/ekkora/internal/session"
	"github.com/mmynk/ekkora/internal/storage"
	"github.com/mmynk/ekkora/internal/workspace"
)

// Workspaces opens the caller's church workspace for each request.
type Workspaces struct {
	repo   *storage.Repository
	logger *slog.Logger
	opts   []workspace.Option
}

// NewWorkspaces creates an opener. opts apply to every opened workspace.
func NewWorkspaces(repo *storage.Repository, logger *slog.Logger, opts ...workspace.Option) *Workspaces {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]workspace.Option{workspace.WithLogger(logger)}, opts...)
	return &Workspaces{repo: repo, logger: logger, opts: opts}
}

// Repository returns the repository workspaces are opened over.
func (w *Workspaces) Repository() *storage.Repository {
	return w.repo
}

// open resolves the authenticated caller into its workspace. The caller must
// close it. Callers without a church, or removed from theirs, get
// FailedPrecondition.
func (w *Workspaces) open(ctx context.Context) (*workspace.Workspace, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Open(ctx, w.repo, id, w.opts...)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) || errors.Is(err, session.ErrNotMember) {
			return nil, connect.NewError(connect.CodeFailedPrecondition, err)
		}
		return nil, toConnectError(err)
	}
	return ws, nil
}

// caller returns the identity set by the auth interceptor.
func caller(ctx context.Context) (*identity.Identity, error) {
	id := middleware.GetIdentity(ctx)
	if id == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return id, nil
}
