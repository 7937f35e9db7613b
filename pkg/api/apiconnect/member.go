package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ekkora/pkg/api"
)

const (
	// MemberServiceName is the fully-qualified name of the service.
	MemberServiceName = "ekkora.v1.MemberService"
)

const (
	MemberServiceInviteMemberProcedure = "/ekkora.v1.MemberService/InviteMember"
	MemberServiceRemoveMemberProcedure = "/ekkora.v1.MemberService/RemoveMember"
	MemberServiceListMembersProcedure  = "/ekkora.v1.MemberService/ListMembers"
	MemberServiceWatchMembersProcedure = "/ekkora.v1.MemberService/WatchMembers"
	MemberServiceListInvitesProcedure  = "/ekkora.v1.MemberService/ListInvites"
)

// MemberServiceClient is a client for the ekkora.v1.MemberService service.
type MemberServiceClient interface {
	InviteMember(context.Context, *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.InviteMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	WatchMembers(context.Context, *connect.Request[api.WatchMembersRequest]) (*connect.ServerStreamForClient[api.WatchMembersResponse], error)
	ListInvites(context.Context, *connect.Request[api.ListInvitesRequest]) (*connect.Response[api.ListInvitesResponse], error)
}

// NewMemberServiceClient constructs a client for the ekkora.v1.MemberService service. The
// base URL is the server's root, e.g. http://localhost:8080.
func NewMemberServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MemberServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &memberServiceClient{
		inviteMember: connect.NewClient[api.InviteMemberRequest, api.InviteMemberResponse](httpClient, baseURL+MemberServiceInviteMemberProcedure, opts...),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+MemberServiceRemoveMemberProcedure, opts...),
		listMembers:  connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+MemberServiceListMembersProcedure, opts...),
		watchMembers: connect.NewClient[api.WatchMembersRequest, api.WatchMembersResponse](httpClient, baseURL+MemberServiceWatchMembersProcedure, opts...),
		listInvites:  connect.NewClient[api.ListInvitesRequest, api.ListInvitesResponse](httpClient, baseURL+MemberServiceListInvitesProcedure, opts...),
	}
}

type memberServiceClient struct {
	inviteMember *connect.Client[api.InviteMemberRequest, api.InviteMemberResponse]
	removeMember *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	listMembers  *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	watchMembers *connect.Client[api.WatchMembersRequest, api.WatchMembersResponse]
	listInvites  *connect.Client[api.ListInvitesRequest, api.ListInvitesResponse]
}

func (c *memberServiceClient) InviteMember(ctx context.Context, req *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.InviteMemberResponse], error) {
	return c.inviteMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *memberServiceClient) WatchMembers(ctx context.Context, req *connect.Request[api.WatchMembersRequest]) (*connect.ServerStreamForClient[api.WatchMembersResponse], error) {
	return c.watchMembers.CallServerStream(ctx, req)
}

func (c *memberServiceClient) ListInvites(ctx context.Context, req *connect.Request[api.ListInvitesRequest]) (*connect.Response[api.ListInvitesResponse], error) {
	return c.listInvites.CallUnary(ctx, req)
}

// MemberServiceHandler is implemented by the server side of ekkora.v1.MemberService.
// MemberService manages memberships and invites.
type MemberServiceHandler interface {
	InviteMember(context.Context, *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.InviteMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	WatchMembers(context.Context, *connect.Request[api.WatchMembersRequest], *connect.ServerStream[api.WatchMembersResponse]) error
	ListInvites(context.Context, *connect.Request[api.ListInvitesRequest]) (*connect.Response[api.ListInvitesResponse], error)
}

// NewMemberServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewMemberServiceHandler(svc MemberServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(MemberServiceInviteMemberProcedure, connect.NewUnaryHandler(MemberServiceInviteMemberProcedure, svc.InviteMember, opts...))
	mux.Handle(MemberServiceRemoveMemberProcedure, connect.NewUnaryHandler(MemberServiceRemoveMemberProcedure, svc.RemoveMember, opts...))
	mux.Handle(MemberServiceListMembersProcedure, connect.NewUnaryHandler(MemberServiceListMembersProcedure, svc.ListMembers, opts...))
	mux.Handle(MemberServiceWatchMembersProcedure, connect.NewServerStreamHandler(MemberServiceWatchMembersProcedure, svc.WatchMembers, opts...))
	mux.Handle(MemberServiceListInvitesProcedure, connect.NewUnaryHandler(MemberServiceListInvitesProcedure, svc.ListInvites, opts...))
	return "/" + MemberServiceName + "/", mux
}

// UnimplementedMemberServiceHandler returns CodeUnimplemented from every method.
type UnimplementedMemberServiceHandler struct{}

func (UnimplementedMemberServiceHandler) InviteMember(context.Context, *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.InviteMemberResponse], error) {
	return nil, unimplemented(MemberServiceInviteMemberProcedure)
}

func (UnimplementedMemberServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, unimplemented(MemberServiceRemoveMemberProcedure)
}

func (UnimplementedMemberServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, unimplemented(MemberServiceListMembersProcedure)
}

func (UnimplementedMemberServiceHandler) WatchMembers(context.Context, *connect.Request[api.WatchMembersRequest], *connect.ServerStream[api.WatchMembersResponse]) error {
	return unimplemented(MemberServiceWatchMembersProcedure)
}

func (UnimplementedMemberServiceHandler) ListInvites(context.Context, *connect.Request[api.ListInvitesRequest]) (*connect.Response[api.ListInvitesResponse], error) {
	return nil, unimplemented(MemberServiceListInvitesProcedure)
}
