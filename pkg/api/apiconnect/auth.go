package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

const (
	// AuthServiceName is the fully-qualified name of the service.
	AuthServiceName = "ekkora.v1.AuthService"
)

const (
	AuthServiceSignUpProcedure         = "/ekkora.v1.AuthService/SignUp"
	AuthServiceSignInProcedure         = "/ekkora.v1.AuthService/SignIn"
	AuthServiceGetCurrentUserProcedure = "/ekkora.v1.AuthService/GetCurrentUser"
)

// AuthServiceClient is a client for the ekkora.v1.AuthService service.
type AuthServiceClient interface {
	SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error)
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for the ekkora.v1.AuthService service. The
// base URL is the server's root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		signUp:         connect.NewClient[api.SignUpRequest, api.SignUpResponse](httpClient, baseURL+AuthServiceSignUpProcedure, opts...),
		signIn:         connect.NewClient[api.SignInRequest, api.SignInResponse](httpClient, baseURL+AuthServiceSignInProcedure, opts...),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	signUp         *connect.Client[api.SignUpRequest, api.SignUpResponse]
	signIn         *connect.Client[api.SignInRequest, api.SignInResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

func (c *authServiceClient) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	return c.signUp.CallUnary(ctx, req)
}

func (c *authServiceClient) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	return c.signIn.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of ekkora.v1.AuthService.
// AuthService signs identities up and in and issues session tokens.
type AuthServiceHandler interface {
	SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error)
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceSignUpProcedure, connect.NewUnaryHandler(AuthServiceSignUpProcedure, svc.SignUp, opts...))
	mux.Handle(AuthServiceSignInProcedure, connect.NewUnaryHandler(AuthServiceSignInProcedure, svc.SignIn, opts...))
	mux.Handle(AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	return "/" + AuthServiceName + "/", mux
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from every method.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	return nil, unimplemented(AuthServiceSignUpProcedure)
}

func (UnimplementedAuthServiceHandler) SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	return nil, unimplemented(AuthServiceSignInProcedure)
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return nil, unimplemented(AuthServiceGetCurrentUserProcedure)
}
