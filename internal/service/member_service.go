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

// MemberService implements the membership and invite RPCs.
type MemberService struct {
	workspaces *Workspaces
	logger     *slog.Logger
}

var _ apiconnect.MemberServiceHandler = (*MemberService)(nil)

// NewMemberService creates a member service.
func NewMemberService(workspaces *Workspaces, logger *slog.Logger) *MemberService {
	return &MemberService{workspaces: workspaces, logger: logger}
}

// InviteMember offers membership to an email address. Admin only.
func (s *MemberService) InviteMember(ctx context.Context, req *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.InviteMemberResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("InviteMember request received", "church_id", ws.Session().ChurchID(), "role", req.Msg.Role)

	inv, err := ws.Invite(ctx, req.Msg.Email, req.Msg.Role)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.InviteMemberResponse{Invite: inviteToAPI(inv)}), nil
}

// RemoveMember deletes a membership. Admin only; never the caller.
func (s *MemberService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	s.logger.Info("RemoveMember request received", "church_id", ws.Session().ChurchID(), "uid", req.Msg.UID)

	if err := ws.RemoveMember(ctx, req.Msg.UID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}

// ListMembers returns the church's members.
func (s *MemberService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	members, err := ws.ListMembers(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: membersToAPI(members)}), nil
}

// WatchMembers streams the member list whenever it changes.
func (s *MemberService) WatchMembers(ctx context.Context, req *connect.Request[api.WatchMembersRequest], stream *connect.ServerStream[api.WatchMembersResponse]) error {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	return pump(ctx,
		func(onChange func([]models.Membership, error)) (*workspace.View[[]models.Membership], error) {
			return ws.WatchMembers(ctx, onChange)
		},
		func(members []models.Membership) error {
			return stream.Send(&api.WatchMembersResponse{Members: membersToAPI(members)})
		},
	)
}

// ListInvites returns the church's invites. Admin only.
func (s *MemberService) ListInvites(ctx context.Context, req *connect.Request[api.ListInvitesRequest]) (*connect.Response[api.ListInvitesResponse], error) {
	ws, err := s.workspaces.open(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	invites, err := ws.ListInvites(ctx, req.Msg.PendingOnly)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListInvitesResponse{Invites: invitesToAPI(invites)}), nil
}
