package apiconnect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

func TestCodecEmptyBody(t *testing.T) {
	var req api.ListEntriesRequest
	if err := (Codec{}).Unmarshal(nil, &req); err != nil {
		t.Fatalf("Unmarshal(nil) failed: %v", err)
	}
	if err := (Codec{}).Unmarshal([]byte(`{"search":"luz","extra":1}`), &req); err != nil {
		t.Fatalf("Unmarshal with unknown field failed: %v", err)
	}
	if req.Search != "luz" {
		t.Errorf("Search = %q, want luz", req.Search)
	}
	if err := (Codec{}).Unmarshal([]byte(`{"search":`), &req); err == nil {
		t.Error("Unmarshal of truncated JSON succeeded, want error")
	}
}

func TestUnimplementedHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle(NewReportServiceHandler(UnimplementedReportServiceHandler{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewReportServiceClient(http.DefaultClient, server.URL+"/")
	_, err := client.RunReport(context.Background(), connect.NewRequest(&api.RunReportRequest{}))
	if connect.CodeOf(err) != connect.CodeUnimplemented {
		t.Errorf("RunReport error = %v, want unimplemented", err)
	}
}
