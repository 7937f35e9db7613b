package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

const (
	// DashboardServiceName is the fully-qualified name of the service.
	DashboardServiceName = "ekkora.v1.DashboardService"
)

const (
	DashboardServiceGetDashboardProcedure   = "/ekkora.v1.DashboardService/GetDashboard"
	DashboardServiceWatchDashboardProcedure = "/ekkora.v1.DashboardService/WatchDashboard"
)

// DashboardServiceClient is a client for the ekkora.v1.DashboardService service.
type DashboardServiceClient interface {
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	WatchDashboard(context.Context, *connect.Request[api.WatchDashboardRequest]) (*connect.ServerStreamForClient[api.WatchDashboardResponse], error)
}

// NewDashboardServiceClient constructs a client for the ekkora.v1.DashboardService service. The
// base URL is the server's root, e.g. http://localhost:8080.
func NewDashboardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DashboardServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &dashboardServiceClient{
		getDashboard:   connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](httpClient, baseURL+DashboardServiceGetDashboardProcedure, opts...),
		watchDashboard: connect.NewClient[api.WatchDashboardRequest, api.WatchDashboardResponse](httpClient, baseURL+DashboardServiceWatchDashboardProcedure, opts...),
	}
}

type dashboardServiceClient struct {
	getDashboard   *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
	watchDashboard *connect.Client[api.WatchDashboardRequest, api.WatchDashboardResponse]
}

func (c *dashboardServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) WatchDashboard(ctx context.Context, req *connect.Request[api.WatchDashboardRequest]) (*connect.ServerStreamForClient[api.WatchDashboardResponse], error) {
	return c.watchDashboard.CallServerStream(ctx, req)
}

// DashboardServiceHandler is implemented by the server side of ekkora.v1.DashboardService.
// DashboardService summarizes the current month.
type DashboardServiceHandler interface {
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	WatchDashboard(context.Context, *connect.Request[api.WatchDashboardRequest], *connect.ServerStream[api.WatchDashboardResponse]) error
}

// NewDashboardServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewDashboardServiceHandler(svc DashboardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(DashboardServiceGetDashboardProcedure, connect.NewUnaryHandler(DashboardServiceGetDashboardProcedure, svc.GetDashboard, opts...))
	mux.Handle(DashboardServiceWatchDashboardProcedure, connect.NewServerStreamHandler(DashboardServiceWatchDashboardProcedure, svc.WatchDashboard, opts...))
	return "/" + DashboardServiceName + "/", mux
}

// UnimplementedDashboardServiceHandler returns CodeUnimplemented from every method.
type UnimplementedDashboardServiceHandler struct{}

func (UnimplementedDashboardServiceHandler) GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return nil, unimplemented(DashboardServiceGetDashboardProcedure)
}

func (UnimplementedDashboardServiceHandler) WatchDashboard(context.Context, *connect.Request[api.WatchDashboardRequest], *connect.ServerStream[api.WatchDashboardResponse]) error {
	return unimplemented(DashboardServiceWatchDashboardProcedure)
}
