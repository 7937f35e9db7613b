// Package access is the role-gated mutation guard: a static table of which
// roles may perform which tenant-scoped writes.
package access

import (
	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/models"
)

// Action is a guarded tenant-scoped mutation.
type Action string

const (
	WriteFinance  Action = "finance.write"
	WriteCategory Action = "category.write"
	ManageMembers Action = "members.manage"
	EditChurch    Action = "church.edit"
	WritePeople   Action = "people.write"
)

var table = map[Action][]models.Role{
	WriteFinance:  {models.RoleAdmin, models.RoleTreasurer},
	WriteCategory: {models.RoleAdmin, models.RoleTreasurer},
	ManageMembers: {models.RoleAdmin},
	EditChurch:    {models.RoleAdmin},
	WritePeople:   {models.RoleAdmin},
}

// Actions lists every guarded action in a stable order.
func Actions() []Action {
	return []Action{WriteFinance, WriteCategory, ManageMembers, EditChurch, WritePeople}
}

// Permitted returns the actions role may perform.
func Permitted(role models.Role) []Action {
	var out []Action
	for _, a := range Actions() {
		if Allowed(role, a) {
			out = append(out, a)
		}
	}
	return out
}

// Allowed reports whether role may perform action. Unknown roles and actions
// are denied.
func Allowed(role models.Role, action Action) bool {
	for _, r := range table[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns a permission error when role may not perform action.
func Require(role models.Role, action Action) error {
	if Allowed(role, action) {
		return nil
	}
	if role == "" {
		return apperr.Permissionf("not a member of this church")
	}
	return apperr.Permissionf("role %s cannot perform %s", role, action)
}
