package session

import "fmt"

// State is a Session Resolver state.
type State int

const (
	Unauthenticated State = iota
	ResolvingTenant
	PendingInvite
	NoTenant
	InWorkspace
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case ResolvingTenant:
		return "resolving_tenant"
	case PendingInvite:
		return "pending_invite"
	case NoTenant:
		return "no_tenant"
	case InWorkspace:
		return "in_workspace"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// canTransition reports whether the resolver may move from one state to
// another. A session event may restart resolution from anywhere; only a
// running resolution may settle into a tenant state.
func canTransition(from, to State) bool {
	switch to {
	case Unauthenticated, ResolvingTenant:
		return true
	case PendingInvite, NoTenant, InWorkspace:
		return from == ResolvingTenant
	}
	return false
}
