package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/internal/calculator"
	"github.com/mmynk/ekkora/pkg/api"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
)

// ReportService builds period reports and CSV exports.
type ReportService struct {
	workspaces *Workspaces
	logger     *slog.Logger
}

var _ apiconnect.ReportServiceHandler = (*ReportService)(nil)

// NewReportService creates a report service.
func NewReportService(workspaces *Workspaces, logger *slog.Logger) *ReportService {
	return &ReportService{workspaces: workspaces, logger: logger}
}

// RunReport summarizes a period with per-category breakdowns.
func (s *ReportService) RunReport(ctx context.Context, req *connect.Request[api.RunReportRequest]) (*connect.Response[api.RunReportResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	r, err := ws.ParseRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("RunReport request received", "church_id", ws.Session().ChurchID(), "from", req.Msg.From, "to", req.Msg.To)

	rep, err := ws.Report(ctx, r)
	if err != nil {
		return nil, toConnectError(err)
	}
	loc := r.From.Location()
	return connect.NewResponse(&api.RunReportResponse{
		From:    calculator.DayKey(r.From, loc),
		To:      calculator.DayKey(r.To, loc),
		Totals:  totalsToAPI(rep.Totals),
		Income:  categoryTotalsToAPI(rep.Income),
		Expense: categoryTotalsToAPI(rep.Expense),
		Entries: entriesToAPI(rep.Entries),
	}), nil
}

// ExportCSV returns the period's ledger as a CSV document.
func (s *ReportService) ExportCSV(ctx context.Context, req *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	r, err := ws.ParseRange(req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("ExportCSV request received", "church_id", ws.Session().ChurchID(), "from", req.Msg.From, "to", req.Msg.To)

	rep, err := ws.Report(ctx, r)
	if err != nil {
		return nil, toConnectError(err)
	}
	var buf bytes.Buffer
	if err := rep.WriteCSV(&buf); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	loc := r.From.Location()
	filename := fmt.Sprintf("ekkora-%s-%s.csv", calculator.DayKey(r.From, loc), calculator.DayKey(r.To, loc))
	return connect.NewResponse(&api.ExportCSVResponse{Filename: filename, Content: buf.Bytes()}), nil
}
