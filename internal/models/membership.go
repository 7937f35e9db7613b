package models

import (
	"fmt"
	"time"
)

// Role is the permission level a member holds within a church.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTreasurer Role = "treasurer"
	RoleViewer    Role = "viewer"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleTreasurer, RoleViewer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Membership links an identity to a church with a role.
// Stored at churches/{churchId}/members/{uid}.
type Membership struct {
	ChurchID string `doc:"-"`
	UID      string `doc:"uid"`
	Role     Role   `doc:"role"`
	Name     string `doc:"name"`
	Email    string `doc:"email"`

	CreatedAt time.Time `doc:"createdAt"`
	UpdatedAt time.Time `doc:"updatedAt"`
}
