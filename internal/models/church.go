package models

import "time"

// Church is a tenant. Tenant-scoped collections live under churches/{ID}.
type Church struct {
	ID string `doc:"-"`

	Name  string `doc:"name"`
	City  string `doc:"city"`
	State string `doc:"state"`

	// OwnerUID is the identity that created the church during onboarding.
	OwnerUID string `doc:"ownerUid"`

	CreatedAt time.Time `doc:"createdAt"`
	UpdatedAt time.Time `doc:"updatedAt"`
	UpdatedBy string    `doc:"updatedBy"`
}
