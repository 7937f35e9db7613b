package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/session"
)

// toConnectError maps an application error to a Connect error code.
// Existing Connect errors pass through unchanged.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, session.ErrSessionChanged):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, identity.ErrTooManyRequests):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.Is(err, identity.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, identity.ErrWeakPassword):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, identity.ErrInvalidCredential), errors.Is(err, identity.ErrUserNotFound):
		// Unknown users and wrong passwords look the same to the caller.
		return connect.NewError(connect.CodeUnauthenticated, identity.ErrInvalidCredential)
	}

	switch apperr.KindOf(err) {
	case apperr.Validation:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case apperr.Permission:
		return connect.NewError(connect.CodePermissionDenied, err)
	case apperr.NotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case apperr.Conflict:
		return connect.NewError(connect.CodeAlreadyExists, err)
	case apperr.Transient:
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
