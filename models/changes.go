package models

import "time"

// PostChanges is a store-level update of one post. Columns holds plain column
// assignments; publication stamping and relation replacement are expressed
// separately so the store can apply them atomically.
type PostChanges struct {
	Columns map[string]any

	// PublishedAt, when set, is written to published_at. With
	// KeepFirstPublishedAt an existing value is preserved.
	PublishedAt          *time.Time
	KeepFirstPublishedAt bool

	CategoryIDs *[]uint
	TagIDs      *[]uint

	// At stamps new join rows
	At time.Time
}
