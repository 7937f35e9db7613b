package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/pkg/api"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
)

// fakeVerifier accepts exactly one token.
type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &identity.Identity{UID: "user-1", Email: "user@example.com"}, nil
}

// echoAuth reports the identity the interceptor stored.
type echoAuth struct {
	apiconnect.UnimplementedAuthServiceHandler
}

func (echoAuth) GetCurrentUser(ctx context.Context, _ *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return connect.NewResponse(&api.GetCurrentUserResponse{User: &api.User{UID: GetUserID(ctx)}}), nil
}

type echoSession struct {
	apiconnect.UnimplementedSessionServiceHandler
}

func (echoSession) Resolve(ctx context.Context, _ *connect.Request[api.ResolveRequest]) (*connect.Response[api.ResolveResponse], error) {
	state := "unauthenticated"
	if GetIdentity(ctx) != nil {
		state = "resolving_tenant"
	}
	return connect.NewResponse(&api.ResolveResponse{State: state}), nil
}

type echoMembers struct {
	apiconnect.UnimplementedMemberServiceHandler
}

func (echoMembers) WatchMembers(ctx context.Context, _ *connect.Request[api.WatchMembersRequest], stream *connect.ServerStream[api.WatchMembersResponse]) error {
	return stream.Send(&api.WatchMembersResponse{Members: []api.Member{{UID: GetUserID(ctx)}}})
}

func setupTestServer(t *testing.T, interceptors ...connect.Interceptor) string {
	t.Helper()
	opt := connect.WithInterceptors(interceptors...)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(echoAuth{}, opt))
	mux.Handle(apiconnect.NewSessionServiceHandler(echoSession{}, opt))
	mux.Handle(apiconnect.NewMemberServiceHandler(echoMembers{}, opt))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL
}

func withToken[T any](msg *T, header string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	return req
}

func TestAuthInterceptor(t *testing.T) {
	url := setupTestServer(t, NewAuthInterceptor(fakeVerifier{}, apiconnect.SessionServiceResolveProcedure))
	authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, url)
	sessionClient := apiconnect.NewSessionServiceClient(http.DefaultClient, url)

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
		wantUID  string
	}{
		{name: "valid token", header: "Bearer good", wantUID: "user-1"},
		{name: "lowercase scheme", header: "bearer good", wantUID: "user-1"},
		{name: "missing header", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic good", wantCode: connect.CodeUnauthenticated},
		{name: "invalid token", header: "Bearer bad", wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := authClient.GetCurrentUser(context.Background(), withToken(&api.GetCurrentUserRequest{}, tt.header))
			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("expected %v, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetCurrentUser failed: %v", err)
			}
			if resp.Msg.User.UID != tt.wantUID {
				t.Errorf("uid: expected %q, got %q", tt.wantUID, resp.Msg.User.UID)
			}
		})
	}

	t.Run("public procedure without token", func(t *testing.T) {
		resp, err := sessionClient.Resolve(context.Background(), withToken(&api.ResolveRequest{}, ""))
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if resp.Msg.State != "unauthenticated" {
			t.Errorf("state: expected unauthenticated, got %q", resp.Msg.State)
		}
	})

	t.Run("public procedure with bad token", func(t *testing.T) {
		resp, err := sessionClient.Resolve(context.Background(), withToken(&api.ResolveRequest{}, "Bearer bad"))
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if resp.Msg.State != "unauthenticated" {
			t.Errorf("state: expected unauthenticated, got %q", resp.Msg.State)
		}
	})

	t.Run("public procedure with good token", func(t *testing.T) {
		resp, err := sessionClient.Resolve(context.Background(), withToken(&api.ResolveRequest{}, "Bearer good"))
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if resp.Msg.State != "resolving_tenant" {
			t.Errorf("state: expected identity to be set, got %q", resp.Msg.State)
		}
	})
}

func TestAuthInterceptorStream(t *testing.T) {
	url := setupTestServer(t, NewAuthInterceptor(fakeVerifier{}))
	client := apiconnect.NewMemberServiceClient(http.DefaultClient, url)

	stream, err := client.WatchMembers(context.Background(), withToken(&api.WatchMembersRequest{}, "Bearer good"))
	if err != nil {
		t.Fatalf("WatchMembers failed: %v", err)
	}
	if !stream.Receive() {
		t.Fatalf("expected a message: %v", stream.Err())
	}
	if uid := stream.Msg().Members[0].UID; uid != "user-1" {
		t.Errorf("uid: expected user-1, got %q", uid)
	}
	stream.Close()

	stream, err = client.WatchMembers(context.Background(), withToken(&api.WatchMembersRequest{}, ""))
	if err != nil {
		t.Fatalf("WatchMembers failed: %v", err)
	}
	defer stream.Close()
	if stream.Receive() {
		t.Fatal("expected no message without a token")
	}
	if connect.CodeOf(stream.Err()) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated, got %v", stream.Err())
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	url := setupTestServer(t, metrics, NewAuthInterceptor(fakeVerifier{}))
	client := apiconnect.NewAuthServiceClient(http.DefaultClient, url)
	ctx := context.Background()

	for _, header := range []string{"Bearer good", "Bearer good", ""} {
		client.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, header))
	}

	procedure := apiconnect.AuthServiceGetCurrentUserProcedure
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(procedure, "ok")); got != 2 {
		t.Errorf("ok requests: expected 2, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(procedure, "unauthenticated")); got != 1 {
		t.Errorf("unauthenticated requests: expected 1, got %v", got)
	}
	if n := testutil.CollectAndCount(metrics.duration); n != 1 {
		t.Errorf("duration series: expected 1, got %d", n)
	}
}

// lockedBuffer is written by handler goroutines and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLoggingInterceptor(t *testing.T) {
	var buf lockedBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	url := setupTestServer(t, NewLoggingInterceptor(logger), NewAuthInterceptor(fakeVerifier{}))
	client := apiconnect.NewAuthServiceClient(http.DefaultClient, url)
	ctx := context.Background()

	if _, err := client.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, "Bearer good")); err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	client.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, ""))

	out := buf.String()
	if !strings.Contains(out, `"msg":"RPC ok"`) {
		t.Errorf("expected success log, got %s", out)
	}
	if !strings.Contains(out, `"msg":"RPC error"`) || !strings.Contains(out, `"code":"unauthenticated"`) {
		t.Errorf("expected error log with code, got %s", out)
	}
	if !strings.Contains(out, apiconnect.AuthServiceGetCurrentUserProcedure) {
		t.Errorf("expected procedure in log, got %s", out)
	}
}
