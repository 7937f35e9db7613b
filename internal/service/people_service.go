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

// PeopleService implements the congregation registry RPCs.
type PeopleService struct {
	workspaces *Workspaces
	logger     *slog.Logger
}

var _ apiconnect.PeopleServiceHandler = (*PeopleService)(nil)

// NewPeopleService creates a people service.
func NewPeopleService(workspaces *Workspaces, logger *slog.Logger) *PeopleService {
	return &PeopleService{workspaces: workspaces, logger: logger}
}

// CreatePerson adds a registry record. Admin only.
func (s *PeopleService) CreatePerson(ctx context.Context, req *connect.Request[api.CreatePersonRequest]) (*connect.Response[api.CreatePersonResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("CreatePerson request received", "church_id", ws.Session().ChurchID())

	p, err := ws.CreatePerson(ctx, personInput(req.Msg.Person))
	if err != nil {
		return nil, toConnectError(err)
	}
	out := personToAPI(*p, ws.Now())
	return connect.NewResponse(&api.CreatePersonResponse{Person: &out}), nil
}

// UpdatePerson replaces a registry record. Admin only.
func (s *PeopleService) UpdatePerson(ctx context.Context, req *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("UpdatePerson request received", "church_id", ws.Session().ChurchID(), "person_id", req.Msg.ID)

	p, err := ws.UpdatePerson(ctx, req.Msg.ID, personInput(req.Msg.Person))
	if err != nil {
		return nil, toConnectError(err)
	}
	out := personToAPI(*p, ws.Now())
	return connect.NewResponse(&api.UpdatePersonResponse{Person: &out}), nil
}

// DeletePerson removes a registry record. Admin only.
func (s *PeopleService) DeletePerson(ctx context.Context, req *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("DeletePerson request received", "church_id", ws.Session().ChurchID(), "person_id", req.Msg.ID)

	if err := ws.DeletePerson(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeletePersonResponse{}), nil
}

// ListPeople returns the registry ordered by name.
func (s *PeopleService) ListPeople(ctx context.Context, req *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	people, err := ws.ListPeople(ctx, req.Msg.Search)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListPeopleResponse{People: peopleToAPI(people, ws.Now())}), nil
}

// WatchPeople streams the registry whenever it changes.
func (s *PeopleService) WatchPeople(ctx context.Context, req *connect.Request[api.WatchPeopleRequest], stream *connect.ServerStream[api.WatchPeopleResponse]) error {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	return pump(ctx,
		func(onChange func([]models.Person, error)) (*workspace.View[[]models.Person], error) {
			return ws.WatchPeople(ctx, req.Msg.Search, onChange)
		},
		func(people []models.Person) error {
			return stream.Send(&api.WatchPeopleResponse{People: peopleToAPI(people, ws.Now())})
		},
	)
}
