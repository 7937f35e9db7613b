package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/workspace"
	"github.com/mmynk/ekkora/pkg/api"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
)

// CategoryService implements the category RPCs.
type CategoryService struct {
	workspaces *Workspaces
	logger     *slog.Logger
}

var _ apiconnect.CategoryServiceHandler = (*CategoryService)(nil)

// NewCategoryService creates a category service.
func NewCategoryService(workspaces *Workspaces, logger *slog.Logger) *CategoryService {
	return &CategoryService{workspaces: workspaces, logger: logger}
}

// CreateCategory adds a category, or returns the existing one of the same name.
func (s *CategoryService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("CreateCategory request received", "church_id", ws.Session().ChurchID(), "type", req.Msg.Type, "name", req.Msg.Name)

	c, err := ws.CreateCategory(ctx, req.Msg.Type, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := categoryToAPI(*c)
	return connect.NewResponse(&api.CreateCategoryResponse{Category: &out}), nil
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("DeleteCategory request received", "church_id", ws.Session().ChurchID(), "category_id", req.Msg.ID)

	if err := ws.DeleteCategory(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteCategoryResponse{}), nil
}

// ListCategories returns the church's categories ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	cats, err := ws.ListCategories(ctx, req.Msg.Type)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: categoriesToAPI(cats)}), nil
}

// WatchCategories streams the category list whenever it changes.
func (s *CategoryService) WatchCategories(ctx context.Context, req *connect.Request[api.WatchCategoriesRequest], stream *connect.ServerStream[api.WatchCategoriesResponse]) error {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	return pump(ctx,
		func(onChange func([]models.Category, error)) (*workspace.View[[]models.Category], error) {
			return ws.WatchCategories(ctx, req.Msg.Type, onChange)
		},
		func(cats []models.Category) error {
			return stream.Send(&api.WatchCategoriesResponse{Categories: categoriesToAPI(cats)})
		},
	)
}
