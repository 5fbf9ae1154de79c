package models

// LunchRecord represents one lunch bill.
// Records are immutable once created.
type LunchRecord struct {
	// ID is the unique identifier (e.g. "lunch_<uuid>").
	ID string `json:"id" bson:"id"`

	// Date is the calendar day of the lunch in YYYY-MM-DD form.
	Date string `json:"date" bson:"date"`

	// Description defaults to "Office lunch".
	Description string `json:"description" bson:"description"`

	// Total is the bill amount with 2-decimal precision.
	Total float64 `json:"total" bson:"total"`

	// PaidByID references the Member who paid the bill.
	PaidByID string `json:"paidById" bson:"paidById"`

	// PaidByName is the payer's name at creation time.
	PaidByName string `json:"paidByName" bson:"paidByName"`

	// ParticipantIDs is the ordered, non-empty list of members sharing the bill.
	ParticipantIDs []string `json:"participantIds" bson:"participantIds"`

	// ParticipantNames parallels ParticipantIDs.
	ParticipantNames []string `json:"participantNames" bson:"participantNames"`

	// ParticipantShares maps participant ID to an explicit share.
	// Empty (or all zero) means the total is split equally at read time.
	ParticipantShares map[string]float64 `json:"participantShares" bson:"participantShares"`

	Note string `json:"note" bson:"note"`

	// CreatedAt is an RFC 3339 timestamp.
	CreatedAt string `json:"createdAt" bson:"createdAt"`
}

// HasCustomShares reports whether any participant has a non-zero explicit share.
func (r LunchRecord) HasCustomShares() bool {
	for _, id := range r.ParticipantIDs {
		if r.ParticipantShares[id] != 0 {
			return true
		}
	}
	return false
}

// RecordInput is the unvalidated form of a new lunch record. Field rules
// are declared as validator tags; rules spanning several fields (effective
// total, shares) are checked by the validation package.
type RecordInput struct {
	Date        string `validate:"required,datetime=2006-01-02"`
	Description string

	// Total is optional. When nil the effective total is the sum of the shares.
	Total *float64

	PaidByID          string   `validate:"required"`
	ParticipantIDs    []string `validate:"min=1"`
	ParticipantShares map[string]float64
	Note              string
}
