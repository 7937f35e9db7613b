package models

import "time"

// InviteStatus tracks whether an invite has been consumed.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
)

// Invite is an offer of membership addressed by email.
//
// Two mirrors exist: churches/{churchId}/invites/{email} for the church's own
// listing, and inviteIndex/{email} so the invitee can be matched on sign-in
// without scanning every church. Both are keyed by the lower-cased email.
type Invite struct {
	Email         string       `doc:"email"`
	ChurchID      string       `doc:"churchId"`
	Role          Role         `doc:"role"`
	Status        InviteStatus `doc:"status"`
	InvitedByUID  string       `doc:"invitedByUid"`
	AcceptedByUID string       `doc:"acceptedByUid"`

	CreatedAt  time.Time `doc:"createdAt"`
	UpdatedAt  time.Time `doc:"updatedAt"`
	AcceptedAt time.Time `doc:"acceptedAt"`
}

// Pending reports whether the invite can still be accepted.
func (i *Invite) Pending() bool {
	return i != nil && i.Status == InvitePending
}
