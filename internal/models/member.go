package models

// Member represents a tracked participant eligible to pay for or share in a lunch bill.
type Member struct {
	// ID is the unique, stable identifier (e.g. "member_<uuid>").
	ID string `json:"id" bson:"id"`

	// Name is the display name. Unique within a workspace, compared case-insensitively.
	Name string `json:"name" bson:"name"`

	// Active marks members offered for new records. Inactive members keep their history.
	Active bool `json:"active" bson:"active"`

	// CreatedAt is an RFC 3339 timestamp.
	CreatedAt string `json:"createdAt" bson:"createdAt"`
}
