package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

const (
	// ReportServiceName is the fully-qualified name of the service.
	ReportServiceName = "ekkora.v1.ReportService"
)

const (
	ReportServiceRunReportProcedure = "/ekkora.v1.ReportService/RunReport"
	ReportServiceExportCSVProcedure = "/ekkora.v1.ReportService/ExportCSV"
)

// ReportServiceClient is a client for the ekkora.v1.ReportService service.
type ReportServiceClient interface {
	RunReport(context.Context, *connect.Request[api.RunReportRequest]) (*connect.Response[api.RunReportResponse], error)
	ExportCSV(context.Context, *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error)
}

// NewReportServiceClient constructs a client for the ekkora.v1.ReportService service. The
// base URL is the server's root, e.g. http://localhost:8080.
func NewReportServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReportServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &reportServiceClient{
		runReport: connect.NewClient[api.RunReportRequest, api.RunReportResponse](httpClient, baseURL+ReportServiceRunReportProcedure, opts...),
		exportCSV: connect.NewClient[api.ExportCSVRequest, api.ExportCSVResponse](httpClient, baseURL+ReportServiceExportCSVProcedure, opts...),
	}
}

type reportServiceClient struct {
	runReport *connect.Client[api.RunReportRequest, api.RunReportResponse]
	exportCSV *connect.Client[api.ExportCSVRequest, api.ExportCSVResponse]
}

func (c *reportServiceClient) RunReport(ctx context.Context, req *connect.Request[api.RunReportRequest]) (*connect.Response[api.RunReportResponse], error) {
	return c.runReport.CallUnary(ctx, req)
}

func (c *reportServiceClient) ExportCSV(ctx context.Context, req *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error) {
	return c.exportCSV.CallUnary(ctx, req)
}

// ReportServiceHandler is implemented by the server side of ekkora.v1.ReportService.
// ReportService builds period reports.
type ReportServiceHandler interface {
	RunReport(context.Context, *connect.Request[api.RunReportRequest]) (*connect.Response[api.RunReportResponse], error)
	ExportCSV(context.Context, *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error)
}

// NewReportServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewReportServiceHandler(svc ReportServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ReportServiceRunReportProcedure, connect.NewUnaryHandler(ReportServiceRunReportProcedure, svc.RunReport, opts...))
	mux.Handle(ReportServiceExportCSVProcedure, connect.NewUnaryHandler(ReportServiceExportCSVProcedure, svc.ExportCSV, opts...))
	return "/" + ReportServiceName + "/", mux
}

// UnimplementedReportServiceHandler returns CodeUnimplemented from every method.
type UnimplementedReportServiceHandler struct{}

func (UnimplementedReportServiceHandler) RunReport(context.Context, *connect.Request[api.RunReportRequest]) (*connect.Response[api.RunReportResponse], error) {
	return nil, unimplemented(ReportServiceRunReportProcedure)
}

func (UnimplementedReportServiceHandler) ExportCSV(context.Context, *connect.Request[api.ExportCSVRequest]) (*connect.Response[api.ExportCSVResponse], error) {
	return nil, unimplemented(ReportServiceExportCSVProcedure)
}
