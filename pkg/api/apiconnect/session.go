package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

const (
	// SessionServiceName is the fully-qualified name of the service.
	SessionServiceName = "ekkora.v1.SessionService"
)

const (
	SessionServiceResolveProcedure = "/ekkora.v1.SessionService/Resolve"
)

// SessionServiceClient is a client for the ekkora.v1.SessionService service.
type SessionServiceClient interface {
	Resolve(context.Context, *connect.Request[api.ResolveRequest]) (*connect.Response[api.ResolveResponse], error)
}

// NewSessionServiceClient constructs a client for the ekkora.v1.SessionService service. The
// base URL is the server's root, e.g. http://localhost:8080.
func NewSessionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SessionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &sessionServiceClient{
		resolve: connect.NewClient[api.ResolveRequest, api.ResolveResponse](httpClient, baseURL+SessionServiceResolveProcedure, opts...),
	}
}

type sessionServiceClient struct {
	resolve *connect.Client[api.ResolveRequest, api.ResolveResponse]
}

func (c *sessionServiceClient) Resolve(ctx context.Context, req *connect.Request[api.ResolveRequest]) (*connect.Response[api.ResolveResponse], error) {
	return c.resolve.CallUnary(ctx, req)
}

// SessionServiceHandler is implemented by the server side of ekkora.v1.SessionService.
// SessionService resolves the caller's session into a destination.
type SessionServiceHandler interface {
	Resolve(context.Context, *connect.Request[api.ResolveRequest]) (*connect.Response[api.ResolveResponse], error)
}

// NewSessionServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewSessionServiceHandler(svc SessionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SessionServiceResolveProcedure, connect.NewUnaryHandler(SessionServiceResolveProcedure, svc.Resolve, opts...))
	return "/" + SessionServiceName + "/", mux
}

// UnimplementedSessionServiceHandler returns CodeUnimplemented from every method.
type UnimplementedSessionServiceHandler struct{}

func (UnimplementedSessionServiceHandler) Resolve(context.Context, *connect.Request[api.ResolveRequest]) (*connect.Response[api.ResolveResponse], error) {
	return nil, unimplemented(SessionServiceResolveProcedure)
}
