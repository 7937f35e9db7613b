package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/access"
	"github.com/mmynk/ekkora/internal/workspace"
	"github.com/mmynk/ekkora/pkg/api"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
)

// ChurchService handles onboarding, church settings and profile preferences.
type ChurchService struct {
	workspaces *Workspaces
	logger     *slog.Logger
}

var _ apiconnect.ChurchServiceHandler = (*ChurchService)(nil)

// NewChurchService creates a church service.
func NewChurchService(workspaces *Workspaces, logger *slog.Logger) *ChurchService {
	return &ChurchService{workspaces: workspaces, logger: logger}
}

// CreateChurch onboards the caller as owner of a new church.
func (s *ChurchService) CreateChurch(ctx context.Context, req *connect.Request[api.CreateChurchRequest]) (*connect.Response[api.CreateChurchResponse], error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateChurch request received", "user_id", id.UID, "name", req.Msg.Name)

	church, err := workspace.CreateChurch(ctx, s.workspaces.Repository(), id, workspace.ChurchInput{
		Name:  req.Msg.Name,
		City:  req.Msg.City,
		State: req.Msg.State,
	})
	if err != nil {
		s.logger.Warn("CreateChurch failed", "user_id", id.UID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Church created", "church_id", church.ID)
	return connect.NewResponse(&api.CreateChurchResponse{Church: churchToAPI(church)}), nil
}

// GetChurch returns the caller's church.
func (s *ChurchService) GetChurch(ctx context.Context, req *connect.Request[api.GetChurchRequest]) (*connect.Response[api.GetChurchResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	return connect.NewResponse(&api.GetChurchResponse{Church: churchToAPI(ws.Church())}), nil
}

// UpdateChurch changes the church's descriptive fields. Admin only.
func (s *ChurchService) UpdateChurch(ctx context.Context, req *connect.Request[api.UpdateChurchRequest]) (*connect.Response[api.UpdateChurchResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("UpdateChurch request received", "church_id", ws.Session().ChurchID())

	church, err := ws.UpdateChurch(ctx, workspace.ChurchInput{
		Name:  req.Msg.Name,
		City:  req.Msg.City,
		State: req.Msg.State,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateChurchResponse{Church: churchToAPI(church)}), nil
}

// UpdatePreferences stores the caller's monthly target and currency.
func (s *ChurchService) UpdatePreferences(ctx context.Context, req *connect.Request[api.UpdatePreferencesRequest]) (*connect.Response[api.UpdatePreferencesResponse], error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdatePreferences request received", "user_id", id.UID, "currency", req.Msg.Currency)

	profile, err := workspace.UpdatePreferences(ctx, s.workspaces.Repository(), id, req.Msg.MonthlyTarget, req.Msg.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdatePreferencesResponse{Profile: profileToAPI(profile)}), nil
}

// GetWorkspace returns the caller's resolved session: profile, church, role
// and what the role may do.
func (s *ChurchService) GetWorkspace(ctx context.Context, req *connect.Request[api.GetWorkspaceRequest]) (*connect.Response[api.GetWorkspaceResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	sess := ws.Session()
	permissions := []string{}
	for _, a := range access.Permitted(sess.Role) {
		permissions = append(permissions, string(a))
	}
	return connect.NewResponse(&api.GetWorkspaceResponse{
		Profile:     profileToAPI(sess.Profile),
		Church:      churchToAPI(sess.Church),
		Role:        string(sess.Role),
		Permissions: permissions,
	}), nil
}
