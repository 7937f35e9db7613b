package models

import "time"

// FallbackCategory is the reserved category used when an entry names a
// category the church does not have.
const FallbackCategory = "Outros"

// Category is a named income or expense bucket, stored at
// churches/{churchId}/categories/{type_name}.
type Category struct {
	ID           string    `doc:"-"`
	Type         EntryType `doc:"type"`
	Name         string    `doc:"name"`
	CreatedByUID string    `doc:"createdByUid"`
	CreatedAt    time.Time `doc:"createdAt"`
}
