package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

const (
	// ChurchServiceName is the fully-qualified name of the service.
	ChurchServiceName = "ekkora.v1.ChurchService"
)

const (
	ChurchServiceCreateChurchProcedure      = "/ekkora.v1.ChurchService/CreateChurch"
	ChurchServiceGetChurchProcedure         = "/ekkora.v1.ChurchService/GetChurch"
	ChurchServiceUpdateChurchProcedure      = "/ekkora.v1.ChurchService/UpdateChurch"
	ChurchServiceUpdatePreferencesProcedure = "/ekkora.v1.ChurchService/UpdatePreferences"
	ChurchServiceGetWorkspaceProcedure      = "/ekkora.v1.ChurchService/GetWorkspace"
)

// ChurchServiceClient is a client for the ekkora.v1.ChurchService service.
type ChurchServiceClient interface {
	CreateChurch(context.Context, *connect.Request[api.CreateChurchRequest]) (*connect.Response[api.CreateChurchResponse], error)
	GetChurch(context.Context, *connect.Request[api.GetChurchRequest]) (*connect.Response[api.GetChurchResponse], error)
	UpdateChurch(context.Context, *connect.Request[api.UpdateChurchRequest]) (*connect.Response[api.UpdateChurchResponse], error)
	UpdatePreferences(context.Context, *connect.Request[api.UpdatePreferencesRequest]) (*connect.Response[api.UpdatePreferencesResponse], error)
	GetWorkspace(context.Context, *connect.Request[api.GetWorkspaceRequest]) (*connect.Response[api.GetWorkspaceResponse], error)
}

// NewChurchServiceClient constructs a client for the ekkora.v1.ChurchService service. The
// base URL is the server's root, e.g. http://localhost:8080.
func NewChurchServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ChurchServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &churchServiceClient{
		createChurch:      connect.NewClient[api.CreateChurchRequest, api.CreateChurchResponse](httpClient, baseURL+ChurchServiceCreateChurchProcedure, opts...),
		getChurch:         connect.NewClient[api.GetChurchRequest, api.GetChurchResponse](httpClient, baseURL+ChurchServiceGetChurchProcedure, opts...),
		updateChurch:      connect.NewClient[api.UpdateChurchRequest, api.UpdateChurchResponse](httpClient, baseURL+ChurchServiceUpdateChurchProcedure, opts...),
		updatePreferences: connect.NewClient[api.UpdatePreferencesRequest, api.UpdatePreferencesResponse](httpClient, baseURL+ChurchServiceUpdatePreferencesProcedure, opts...),
		getWorkspace:      connect.NewClient[api.GetWorkspaceRequest, api.GetWorkspaceResponse](httpClient, baseURL+ChurchServiceGetWorkspaceProcedure, opts...),
	}
}

type churchServiceClient struct {
	createChurch      *connect.Client[api.CreateChurchRequest, api.CreateChurchResponse]
	getChurch         *connect.Client[api.GetChurchRequest, api.GetChurchResponse]
	updateChurch      *connect.Client[api.UpdateChurchRequest, api.UpdateChurchResponse]
	updatePreferences *connect.Client[api.UpdatePreferencesRequest, api.UpdatePreferencesResponse]
	getWorkspace      *connect.Client[api.GetWorkspaceRequest, api.GetWorkspaceResponse]
}

func (c *churchServiceClient) CreateChurch(ctx context.Context, req *connect.Request[api.CreateChurchRequest]) (*connect.Response[api.CreateChurchResponse], error) {
	return c.createChurch.CallUnary(ctx, req)
}

func (c *churchServiceClient) GetChurch(ctx context.Context, req *connect.Request[api.GetChurchRequest]) (*connect.Response[api.GetChurchResponse], error) {
	return c.getChurch.CallUnary(ctx, req)
}

func (c *churchServiceClient) UpdateChurch(ctx context.Context, req *connect.Request[api.UpdateChurchRequest]) (*connect.Response[api.UpdateChurchResponse], error) {
	return c.updateChurch.CallUnary(ctx, req)
}

func (c *churchServiceClient) UpdatePreferences(ctx context.Context, req *connect.Request[api.UpdatePreferencesRequest]) (*connect.Response[api.UpdatePreferencesResponse], error) {
	return c.updatePreferences.CallUnary(ctx, req)
}

func (c *churchServiceClient) GetWorkspace(ctx context.Context, req *connect.Request[api.GetWorkspaceRequest]) (*connect.Response[api.GetWorkspaceResponse], error) {
	return c.getWorkspace.CallUnary(ctx, req)
}

// ChurchServiceHandler is implemented by the server side of ekkora.v1.ChurchService.
// ChurchService onboards churches and manages church and profile settings.
type ChurchServiceHandler interface {
	CreateChurch(context.Context, *connect.Request[api.CreateChurchRequest]) (*connect.Response[api.CreateChurchResponse], error)
	GetChurch(context.Context, *connect.Request[api.GetChurchRequest]) (*connect.Response[api.GetChurchResponse], error)
	UpdateChurch(context.Context, *connect.Request[api.UpdateChurchRequest]) (*connect.Response[api.UpdateChurchResponse], error)
	UpdatePreferences(context.Context, *connect.Request[api.UpdatePreferencesRequest]) (*connect.Response[api.UpdatePreferencesResponse], error)
	GetWorkspace(context.Context, *connect.Request[api.GetWorkspaceRequest]) (*connect.Response[api.GetWorkspaceResponse], error)
}

// NewChurchServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewChurchServiceHandler(svc ChurchServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ChurchServiceCreateChurchProcedure, connect.NewUnaryHandler(ChurchServiceCreateChurchProcedure, svc.CreateChurch, opts...))
	mux.Handle(ChurchServiceGetChurchProcedure, connect.NewUnaryHandler(ChurchServiceGetChurchProcedure, svc.GetChurch, opts...))
	mux.Handle(ChurchServiceUpdateChurchProcedure, connect.NewUnaryHandler(ChurchServiceUpdateChurchProcedure, svc.UpdateChurch, opts...))
	mux.Handle(ChurchServiceUpdatePreferencesProcedure, connect.NewUnaryHandler(ChurchServiceUpdatePreferencesProcedure, svc.UpdatePreferences, opts...))
	mux.Handle(ChurchServiceGetWorkspaceProcedure, connect.NewUnaryHandler(ChurchServiceGetWorkspaceProcedure, svc.GetWorkspace, opts...))
	return "/" + ChurchServiceName + "/", mux
}

// UnimplementedChurchServiceHandler returns CodeUnimplemented from every method.
type UnimplementedChurchServiceHandler struct{}

func (UnimplementedChurchServiceHandler) CreateChurch(context.Context, *connect.Request[api.CreateChurchRequest]) (*connect.Response[api.CreateChurchResponse], error) {
	return nil, unimplemented(ChurchServiceCreateChurchProcedure)
}

func (UnimplementedChurchServiceHandler) GetChurch(context.Context, *connect.Request[api.GetChurchRequest]) (*connect.Response[api.GetChurchResponse], error) {
	return nil, unimplemented(ChurchServiceGetChurchProcedure)
}

func (UnimplementedChurchServiceHandler) UpdateChurch(context.Context, *connect.Request[api.UpdateChurchRequest]) (*connect.Response[api.UpdateChurchResponse], error) {
	return nil, unimplemented(ChurchServiceUpdateChurchProcedure)
}

func (UnimplementedChurchServiceHandler) UpdatePreferences(context.Context, *connect.Request[api.UpdatePreferencesRequest]) (*connect.Response[api.UpdatePreferencesResponse], error) {
	return nil, unimplemented(ChurchServiceUpdatePreferencesProcedure)
}

func (UnimplementedChurchServiceHandler) GetWorkspace(context.Context, *connect.Request[api.GetWorkspaceRequest]) (*connect.Response[api.GetWorkspaceResponse], error) {
	return nil, unimplemented(ChurchServiceGetWorkspaceProcedure)
}
