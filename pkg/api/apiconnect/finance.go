package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

const (
	// FinanceServiceName is the fully-qualified name of the service.
	FinanceServiceName = "ekkora.v1.FinanceService"
)

const (
	FinanceServiceCreateEntryProcedure  = "/ekkora.v1.FinanceService/CreateEntry"
	FinanceServiceUpdateEntryProcedure  = "/ekkora.v1.FinanceService/UpdateEntry"
	FinanceServiceDeleteEntryProcedure  = "/ekkora.v1.FinanceService/DeleteEntry"
	FinanceServiceListEntriesProcedure  = "/ekkora.v1.FinanceService/ListEntries"
	FinanceServiceWatchEntriesProcedure = "/ekkora.v1.FinanceService/WatchEntries"
)

// FinanceServiceClient is a client for the ekkora.v1.FinanceService service.
type FinanceServiceClient interface {
	CreateEntry(context.Context, *connect.Request[api.CreateEntryRequest]) (*connect.Response[api.CreateEntryResponse], error)
	UpdateEntry(context.Context, *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.UpdateEntryResponse], error)
	DeleteEntry(context.Context, *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error)
	ListEntries(context.Context, *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error)
	WatchEntries(context.Context, *connect.Request[api.WatchEntriesRequest]) (*connect.ServerStreamForClient[api.WatchEntriesResponse], error)
}

// NewFinanceServiceClient constructs a client for the ekkora.v1.FinanceService service. The
// base URL is the server's root, e.g. http://localhost:8080.
func NewFinanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FinanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &financeServiceClient{
		createEntry:  connect.NewClient[api.CreateEntryRequest, api.CreateEntryResponse](httpClient, baseURL+FinanceServiceCreateEntryProcedure, opts...),
		updateEntry:  connect.NewClient[api.UpdateEntryRequest, api.UpdateEntryResponse](httpClient, baseURL+FinanceServiceUpdateEntryProcedure, opts...),
		deleteEntry:  connect.NewClient[api.DeleteEntryRequest, api.DeleteEntryResponse](httpClient, baseURL+FinanceServiceDeleteEntryProcedure, opts...),
		listEntries:  connect.NewClient[api.ListEntriesRequest, api.ListEntriesResponse](httpClient, baseURL+FinanceServiceListEntriesProcedure, opts...),
		watchEntries: connect.NewClient[api.WatchEntriesRequest, api.WatchEntriesResponse](httpClient, baseURL+FinanceServiceWatchEntriesProcedure, opts...),
	}
}

type financeServiceClient struct {
	createEntry  *connect.Client[api.CreateEntryRequest, api.CreateEntryResponse]
	updateEntry  *connect.Client[api.UpdateEntryRequest, api.UpdateEntryResponse]
	deleteEntry  *connect.Client[api.DeleteEntryRequest, api.DeleteEntryResponse]
	listEntries  *connect.Client[api.ListEntriesRequest, api.ListEntriesResponse]
	watchEntries *connect.Client[api.WatchEntriesRequest, api.WatchEntriesResponse]
}

func (c *financeServiceClient) CreateEntry(ctx context.Context, req *connect.Request[api.CreateEntryRequest]) (*connect.Response[api.CreateEntryResponse], error) {
	return c.createEntry.CallUnary(ctx, req)
}

func (c *financeServiceClient) UpdateEntry(ctx context.Context, req *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.UpdateEntryResponse], error) {
	return c.updateEntry.CallUnary(ctx, req)
}

func (c *financeServiceClient) DeleteEntry(ctx context.Context, req *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error) {
	return c.deleteEntry.CallUnary(ctx, req)
}

func (c *financeServiceClient) ListEntries(ctx context.Context, req *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	return c.listEntries.CallUnary(ctx, req)
}

func (c *financeServiceClient) WatchEntries(ctx context.Context, req *connect.Request[api.WatchEntriesRequest]) (*connect.ServerStreamForClient[api.WatchEntriesResponse], error) {
	return c.watchEntries.CallServerStream(ctx, req)
}

// FinanceServiceHandler is implemented by the server side of ekkora.v1.FinanceService.
// FinanceService manages the ledger.
type FinanceServiceHandler interface {
	CreateEntry(context.Context, *connect.Request[api.CreateEntryRequest]) (*connect.Response[api.CreateEntryResponse], error)
	UpdateEntry(context.Context, *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.UpdateEntryResponse], error)
	DeleteEntry(context.Context, *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error)
	ListEntries(context.Context, *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error)
	WatchEntries(context.Context, *connect.Request[api.WatchEntriesRequest], *connect.ServerStream[api.WatchEntriesResponse]) error
}

// NewFinanceServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewFinanceServiceHandler(svc FinanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(FinanceServiceCreateEntryProcedure, connect.NewUnaryHandler(FinanceServiceCreateEntryProcedure, svc.CreateEntry, opts...))
	mux.Handle(FinanceServiceUpdateEntryProcedure, connect.NewUnaryHandler(FinanceServiceUpdateEntryProcedure, svc.UpdateEntry, opts...))
	mux.Handle(FinanceServiceDeleteEntryProcedure, connect.NewUnaryHandler(FinanceServiceDeleteEntryProcedure, svc.DeleteEntry, opts...))
	mux.Handle(FinanceServiceListEntriesProcedure, connect.NewUnaryHandler(FinanceServiceListEntriesProcedure, svc.ListEntries, opts...))
	mux.Handle(FinanceServiceWatchEntriesProcedure, connect.NewServerStreamHandler(FinanceServiceWatchEntriesProcedure, svc.WatchEntries, opts...))
	return "/" + FinanceServiceName + "/", mux
}

// UnimplementedFinanceServiceHandler returns CodeUnimplemented from every method.
type UnimplementedFinanceServiceHandler struct{}

func (UnimplementedFinanceServiceHandler) CreateEntry(context.Context, *connect.Request[api.CreateEntryRequest]) (*connect.Response[api.CreateEntryResponse], error) {
	return nil, unimplemented(FinanceServiceCreateEntryProcedure)
}

func (UnimplementedFinanceServiceHandler) UpdateEntry(context.Context, *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.UpdateEntryResponse], error) {
	return nil, unimplemented(FinanceServiceUpdateEntryProcedure)
}

func (UnimplementedFinanceServiceHandler) DeleteEntry(context.Context, *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error) {
	return nil, unimplemented(FinanceServiceDeleteEntryProcedure)
}

func (UnimplementedFinanceServiceHandler) ListEntries(context.Context, *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	return nil, unimplemented(FinanceServiceListEntriesProcedure)
}

func (UnimplementedFinanceServiceHandler) WatchEntries(context.Context, *connect.Request[api.WatchEntriesRequest], *connect.ServerStream[api.WatchEntriesResponse]) error {
	return unimplemented(FinanceServiceWatchEntriesProcedure)
}
