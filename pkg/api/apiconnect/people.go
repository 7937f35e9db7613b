package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

const (
	// PeopleServiceName is the fully-qualified name of the service.
	PeopleServiceName = "ekkora.v1.PeopleService"
)

const (
	PeopleServiceCreatePersonProcedure = "/ekkora.v1.PeopleService/CreatePerson"
	PeopleServiceUpdatePersonProcedure = "/ekkora.v1.PeopleService/UpdatePerson"
	PeopleServiceDeletePersonProcedure = "/ekkora.v1.PeopleService/DeletePerson"
	PeopleServiceListPeopleProcedure   = "/ekkora.v1.PeopleService/ListPeople"
	PeopleServiceWatchPeopleProcedure  = "/ekkora.v1.PeopleService/WatchPeople"
)

// PeopleServiceClient is a client for the ekkora.v1.PeopleService service.
type PeopleServiceClient interface {
	CreatePerson(context.Context, *connect.Request[api.CreatePersonRequest]) (*connect.Response[api.CreatePersonResponse], error)
	UpdatePerson(context.Context, *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error)
	DeletePerson(context.Context, *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error)
	ListPeople(context.Context, *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error)
	WatchPeople(context.Context, *connect.Request[api.WatchPeopleRequest]) (*connect.ServerStreamForClient[api.WatchPeopleResponse], error)
}

// NewPeopleServiceClient constructs a client for the ekkora.v1.PeopleService service. The
// base URL is the server's root, e.g. http://localhost:8080.
func NewPeopleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PeopleServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &peopleServiceClient{
		createPerson: connect.NewClient[api.CreatePersonRequest, api.CreatePersonResponse](httpClient, baseURL+PeopleServiceCreatePersonProcedure, opts...),
		updatePerson: connect.NewClient[api.UpdatePersonRequest, api.UpdatePersonResponse](httpClient, baseURL+PeopleServiceUpdatePersonProcedure, opts...),
		deletePerson: connect.NewClient[api.DeletePersonRequest, api.DeletePersonResponse](httpClient, baseURL+PeopleServiceDeletePersonProcedure, opts...),
		listPeople:   connect.NewClient[api.ListPeopleRequest, api.ListPeopleResponse](httpClient, baseURL+PeopleServiceListPeopleProcedure, opts...),
		watchPeople:  connect.NewClient[api.WatchPeopleRequest, api.WatchPeopleResponse](httpClient, baseURL+PeopleServiceWatchPeopleProcedure, opts...),
	}
}

type peopleServiceClient struct {
	createPerson *connect.Client[api.CreatePersonRequest, api.CreatePersonResponse]
	updatePerson *connect.Client[api.UpdatePersonRequest, api.UpdatePersonResponse]
	deletePerson *connect.Client[api.DeletePersonRequest, api.DeletePersonResponse]
	listPeople   *connect.Client[api.ListPeopleRequest, api.ListPeopleResponse]
	watchPeople  *connect.Client[api.WatchPeopleRequest, api.WatchPeopleResponse]
}

func (c *peopleServiceClient) CreatePerson(ctx context.Context, req *connect.Request[api.CreatePersonRequest]) (*connect.Response[api.CreatePersonResponse], error) {
	return c.createPerson.CallUnary(ctx, req)
}

func (c *peopleServiceClient) UpdatePerson(ctx context.Context, req *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error) {
	return c.updatePerson.CallUnary(ctx, req)
}

func (c *peopleServiceClient) DeletePerson(ctx context.Context, req *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error) {
	return c.deletePerson.CallUnary(ctx, req)
}

func (c *peopleServiceClient) ListPeople(ctx context.Context, req *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	return c.listPeople.CallUnary(ctx, req)
}

func (c *peopleServiceClient) WatchPeople(ctx context.Context, req *connect.Request[api.WatchPeopleRequest]) (*connect.ServerStreamForClient[api.WatchPeopleResponse], error) {
	return c.watchPeople.CallServerStream(ctx, req)
}

// PeopleServiceHandler is implemented by the server side of ekkora.v1.PeopleService.
// PeopleService manages the congregation registry.
type PeopleServiceHandler interface {
	CreatePerson(context.Context, *connect.Request[api.CreatePersonRequest]) (*connect.Response[api.CreatePersonResponse], error)
	UpdatePerson(context.Context, *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error)
	DeletePerson(context.Context, *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error)
	ListPeople(context.Context, *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error)
	WatchPeople(context.Context, *connect.Request[api.WatchPeopleRequest], *connect.ServerStream[api.WatchPeopleResponse]) error
}

// NewPeopleServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewPeopleServiceHandler(svc PeopleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(PeopleServiceCreatePersonProcedure, connect.NewUnaryHandler(PeopleServiceCreatePersonProcedure, svc.CreatePerson, opts...))
	mux.Handle(PeopleServiceUpdatePersonProcedure, connect.NewUnaryHandler(PeopleServiceUpdatePersonProcedure, svc.UpdatePerson, opts...))
	mux.Handle(PeopleServiceDeletePersonProcedure, connect.NewUnaryHandler(PeopleServiceDeletePersonProcedure, svc.DeletePerson, opts...))
	mux.Handle(PeopleServiceListPeopleProcedure, connect.NewUnaryHandler(PeopleServiceListPeopleProcedure, svc.ListPeople, opts...))
	mux.Handle(PeopleServiceWatchPeopleProcedure, connect.NewServerStreamHandler(PeopleServiceWatchPeopleProcedure, svc.WatchPeople, opts...))
	return "/" + PeopleServiceName + "/", mux
}

// UnimplementedPeopleServiceHandler returns CodeUnimplemented from every method.
type UnimplementedPeopleServiceHandler struct{}

func (UnimplementedPeopleServiceHandler) CreatePerson(context.Context, *connect.Request[api.CreatePersonRequest]) (*connect.Response[api.CreatePersonResponse], error) {
	return nil, unimplemented(PeopleServiceCreatePersonProcedure)
}

func (UnimplementedPeopleServiceHandler) UpdatePerson(context.Context, *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error) {
	return nil, unimplemented(PeopleServiceUpdatePersonProcedure)
}

func (UnimplementedPeopleServiceHandler) DeletePerson(context.Context, *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error) {
	return nil, unimplemented(PeopleServiceDeletePersonProcedure)
}

func (UnimplementedPeopleServiceHandler) ListPeople(context.Context, *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	return nil, unimplemented(PeopleServiceListPeopleProcedure)
}

func (UnimplementedPeopleServiceHandler) WatchPeople(context.Context, *connect.Request[api.WatchPeopleRequest], *connect.ServerStream[api.WatchPeopleResponse]) error {
	return unimplemented(PeopleServiceWatchPeopleProcedure)
}
