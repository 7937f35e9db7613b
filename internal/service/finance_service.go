package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/calculator"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/workspace"
	"github.com/mmynk/ekkora/pkg/api"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
)

// FinanceService implements the ledger RPCs.
type FinanceService struct {
	workspaces *Workspaces
	logger     *slog.Logger
}

var _ apiconnect.FinanceServiceHandler = (*FinanceService)(nil)

// NewFinanceService creates a finance service.
func NewFinanceService(workspaces *Workspaces, logger *slog.Logger) *FinanceService {
	return &FinanceService{workspaces: workspaces, logger: logger}
}

// CreateEntry adds a ledger entry. Admin and treasurer only.
func (s *FinanceService) CreateEntry(ctx context.Context, req *connect.Request[api.CreateEntryRequest]) (*connect.Response[api.CreateEntryResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("CreateEntry request received",
		"church_id", ws.Session().ChurchID(),
		"type", req.Msg.Entry.Type,
		"amount", req.Msg.Entry.Amount,
	)

	e, err := ws.CreateEntry(ctx, entryInput(req.Msg.Entry))
	if err != nil {
		return nil, toConnectError(err)
	}
	out := entryToAPI(*e)
	return connect.NewResponse(&api.CreateEntryResponse{Entry: &out}), nil
}

// UpdateEntry replaces an entry's editable fields.
func (s *FinanceService) UpdateEntry(ctx context.Context, req *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.UpdateEntryResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("UpdateEntry request received", "church_id", ws.Session().ChurchID(), "entry_id", req.Msg.ID)

	e, err := ws.UpdateEntry(ctx, req.Msg.ID, entryInput(req.Msg.Entry))
	if err != nil {
		return nil, toConnectError(err)
	}
	out := entryToAPI(*e)
	return connect.NewResponse(&api.UpdateEntryResponse{Entry: &out}), nil
}

// DeleteEntry removes an entry.
func (s *FinanceService) DeleteEntry(ctx context.Context, req *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("DeleteEntry request received", "church_id", ws.Session().ChurchID(), "entry_id", req.Msg.ID)

	if err := ws.DeleteEntry(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteEntryResponse{}), nil
}

// ListEntries returns the entries of a period, newest first, with totals.
func (s *FinanceService) ListEntries(ctx context.Context, req *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	r, err := ws.ParseRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, toConnectError(err)
	}
	entries, err := ws.ListEntries(ctx, r, req.Msg.Search)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListEntriesResponse{
		Entries: entriesToAPI(entries),
		Totals:  totalsToAPI(calculator.ComputeTotals(entries, r)),
	}), nil
}

// WatchEntries streams the entries of a period whenever they change.
func (s *FinanceService) WatchEntries(ctx context.Context, req *connect.Request[api.WatchEntriesRequest], stream *connect.ServerStream[api.WatchEntriesResponse]) error {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	r, err := ws.ParseRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return toConnectError(err)
	}
	s.logger.Info("WatchEntries stream opened", "church_id", ws.Session().ChurchID())

	return pump(ctx,
		func(onChange func([]models.FinanceEntry, error)) (*workspace.View[[]models.FinanceEntry], error) {
			return ws.WatchEntries(ctx, r, req.Msg.Search, onChange)
		},
		func(entries []models.FinanceEntry) error {
			return stream.Send(&api.WatchEntriesResponse{
				Entries: entriesToAPI(entries),
				Totals:  totalsToAPI(calculator.ComputeTotals(entries, r)),
			})
		},
	)
}
