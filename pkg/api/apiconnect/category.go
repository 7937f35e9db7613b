package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

const (
	// CategoryServiceName is the fully-qualified name of the service.
	CategoryServiceName = "ekkora.v1.CategoryService"
)

const (
	CategoryServiceCreateCategoryProcedure  = "/ekkora.v1.CategoryService/CreateCategory"
	CategoryServiceDeleteCategoryProcedure  = "/ekkora.v1.CategoryService/DeleteCategory"
	CategoryServiceListCategoriesProcedure  = "/ekkora.v1.CategoryService/ListCategories"
	CategoryServiceWatchCategoriesProcedure = "/ekkora.v1.CategoryService/WatchCategories"
)

// CategoryServiceClient is a client for the ekkora.v1.CategoryService service.
type CategoryServiceClient interface {
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	DeleteCategory(context.Context, *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	WatchCategories(context.Context, *connect.Request[api.WatchCategoriesRequest]) (*connect.ServerStreamForClient[api.WatchCategoriesResponse], error)
}

// NewCategoryServiceClient constructs a client for the ekkora.v1.CategoryService service. The
// base URL is the server's root, e.g. http://localhost:8080.
func NewCategoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CategoryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &categoryServiceClient{
		createCategory:  connect.NewClient[api.CreateCategoryRequest, api.CreateCategoryResponse](httpClient, baseURL+CategoryServiceCreateCategoryProcedure, opts...),
		deleteCategory:  connect.NewClient[api.DeleteCategoryRequest, api.DeleteCategoryResponse](httpClient, baseURL+CategoryServiceDeleteCategoryProcedure, opts...),
		listCategories:  connect.NewClient[api.ListCategoriesRequest, api.ListCategoriesResponse](httpClient, baseURL+CategoryServiceListCategoriesProcedure, opts...),
		watchCategories: connect.NewClient[api.WatchCategoriesRequest, api.WatchCategoriesResponse](httpClient, baseURL+CategoryServiceWatchCategoriesProcedure, opts...),
	}
}

type categoryServiceClient struct {
	createCategory  *connect.Client[api.CreateCategoryRequest, api.CreateCategoryResponse]
	deleteCategory  *connect.Client[api.DeleteCategoryRequest, api.DeleteCategoryResponse]
	listCategories  *connect.Client[api.ListCategoriesRequest, api.ListCategoriesResponse]
	watchCategories *connect.Client[api.WatchCategoriesRequest, api.WatchCategoriesResponse]
}

func (c *categoryServiceClient) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

func (c *categoryServiceClient) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	return c.deleteCategory.CallUnary(ctx, req)
}

func (c *categoryServiceClient) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *categoryServiceClient) WatchCategories(ctx context.Context, req *connect.Request[api.WatchCategoriesRequest]) (*connect.ServerStreamForClient[api.WatchCategoriesResponse], error) {
	return c.watchCategories.CallServerStream(ctx, req)
}

// CategoryServiceHandler is implemented by the server side of ekkora.v1.CategoryService.
// CategoryService manages income and expense categories.
type CategoryServiceHandler interface {
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	DeleteCategory(context.Context, *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	WatchCategories(context.Context, *connect.Request[api.WatchCategoriesRequest], *connect.ServerStream[api.WatchCategoriesResponse]) error
}

// NewCategoryServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewCategoryServiceHandler(svc CategoryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(CategoryServiceCreateCategoryProcedure, connect.NewUnaryHandler(CategoryServiceCreateCategoryProcedure, svc.CreateCategory, opts...))
	mux.Handle(CategoryServiceDeleteCategoryProcedure, connect.NewUnaryHandler(CategoryServiceDeleteCategoryProcedure, svc.DeleteCategory, opts...))
	mux.Handle(CategoryServiceListCategoriesProcedure, connect.NewUnaryHandler(CategoryServiceListCategoriesProcedure, svc.ListCategories, opts...))
	mux.Handle(CategoryServiceWatchCategoriesProcedure, connect.NewServerStreamHandler(CategoryServiceWatchCategoriesProcedure, svc.WatchCategories, opts...))
	return "/" + CategoryServiceName + "/", mux
}

// UnimplementedCategoryServiceHandler returns CodeUnimplemented from every method.
type UnimplementedCategoryServiceHandler struct{}

func (UnimplementedCategoryServiceHandler) CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return nil, unimplemented(CategoryServiceCreateCategoryProcedure)
}

func (UnimplementedCategoryServiceHandler) DeleteCategory(context.Context, *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	return nil, unimplemented(CategoryServiceDeleteCategoryProcedure)
}

func (UnimplementedCategoryServiceHandler) ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return nil, unimplemented(CategoryServiceListCategoriesProcedure)
}

func (UnimplementedCategoryServiceHandler) WatchCategories(context.Context, *connect.Request[api.WatchCategoriesRequest], *connect.ServerStream[api.WatchCategoriesResponse]) error {
	return unimplemented(CategoryServiceWatchCategoriesProcedure)
}
