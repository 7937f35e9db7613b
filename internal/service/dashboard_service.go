package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/workspace"
	"github.com/mmynk/ekkora/pkg/api"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
)

// DashboardService serves the current month's summary.
type DashboardService struct {
	workspaces *Workspaces
	logger     *slog.Logger
}

var _ apiconnect.DashboardServiceHandler = (*DashboardService)(nil)

// NewDashboardService creates a dashboard service.
func NewDashboardService(workspaces *Workspaces, logger *slog.Logger) *DashboardService {
	return &DashboardService{workspaces: workspaces, logger: logger}
}

// GetDashboard computes the dashboard once.
func (s *DashboardService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	d, err := ws.Dashboard(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetDashboardResponse{Dashboard: dashboardToAPI(d)}), nil
}

// WatchDashboard streams a recomputed dashboard on every ledger change.
func (s *DashboardService) WatchDashboard(ctx context.Context, req *connect.Request[api.WatchDashboardRequest], stream *connect.ServerStream[api.WatchDashboardResponse]) error {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()
	s.logger.Info("WatchDashboard stream opened", "church_id", ws.Session().ChurchID())

	return pump(ctx,
		func(onChange func(*workspace.Dashboard, error)) (*workspace.View[*workspace.Dashboard], error) {
			return ws.WatchDashboard(ctx, onChange)
		},
		func(d *workspace.Dashboard) error {
			return stream.Send(&api.WatchDashboardResponse{Dashboard: dashboardToAPI(d)})
		},
	)
}
