package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/middleware"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/session"
	"github.com/mmynk/ekkora/internal/storage"
	"github.com/mmynk/ekkora/pkg/api"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
)

// SessionService runs the session resolver for a caller. Each request is a
// fresh resolution: the client reports where it is and how it answers a
// pending invite, and receives the destination and its updated hints.
type SessionService struct {
	repo   *storage.Repository
	logger *slog.Logger
}

var _ apiconnect.SessionServiceHandler = (*SessionService)(nil)

// NewSessionService creates a session service.
func NewSessionService(repo *storage.Repository, logger *slog.Logger) *SessionService {
	return &SessionService{repo: repo, logger: logger}
}

// Resolve decides where the caller should land. Unauthenticated callers get
// the Unauthenticated state.
func (s *SessionService) Resolve(ctx context.Context, req *connect.Request[api.ResolveRequest]) (*connect.Response[api.ResolveResponse], error) {
	id := middleware.GetIdentity(ctx)
	s.logger.Info("Resolve request received", "user_id", middleware.GetUserID(ctx), "location", req.Msg.Location)

	var notice string
	hints := session.NewMemoryHints()
	for k, v := range req.Msg.Hints {
		hints.Set(k, v)
	}

	resolver := session.NewResolver(s.repo,
		session.NavigatorFunc(func(string) {}),
		session.WithNotifier(session.NotifierFunc(func(msg string) { notice = msg })),
		session.WithPrompter(answerFrom(req.Msg.AcceptInvite)),
		session.WithHints(hints),
		session.WithLogger(s.logger),
	)

	d, err := resolver.Resolve(ctx, id, req.Msg.Location)
	if err != nil {
		if notice != "" {
			err = fmt.Errorf("%s: %w", notice, err)
		}
		return nil, toConnectError(err)
	}

	resp := &api.ResolveResponse{
		State:       d.State.String(),
		Destination: d.Destination,
		Navigated:   d.Navigated,
		Notice:      notice,
		Profile:     profileToAPI(d.Profile),
		Invite:      inviteToAPI(d.Invite),
		Church:      churchToAPI(d.Church),
		Hints:       hints.All(),
	}
	if d.Session != nil {
		resp.Church = churchToAPI(d.Session.Church)
		resp.Role = string(d.Session.Role)
	}
	return connect.NewResponse(resp), nil
}

// answerFrom turns the request's optional answer into a prompter.
func answerFrom(accept *bool) session.Prompter {
	return session.PrompterFunc(func(context.Context, *models.Invite, *models.Church) (session.Answer, error) {
		switch {
		case accept == nil:
			return session.Undecided, nil
		case *accept:
			return session.Accept, nil
		default:
			return session.Decline, nil
		}
	})
}
