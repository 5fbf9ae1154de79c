package models

// Payment represents money received from a member toward their outstanding share.
// Payments are immutable once created.
type Payment struct {
	// ID is the unique identifier (e.g. "payment_<uuid>").
	ID string `json:"id" bson:"id"`

	// Date is the day the money was received, YYYY-MM-DD.
	Date string `json:"date" bson:"date"`

	// MemberID references the paying Member.
	MemberID string `json:"memberId" bson:"memberId"`

	// MemberName is the member's name at creation time.
	MemberName string `json:"memberName" bson:"memberName"`

	// Amount is always > 0.
	Amount float64 `json:"amount" bson:"amount"`

	Note string `json:"note" bson:"note"`

	CreatedAt string `json:"createdAt" bson:"createdAt"`
}

// PaymentInput is the unvalidated form of a new payment.
type PaymentInput struct {
	Date     string  `validate:"required,datetime=2006-01-02"`
	MemberID string  `validate:"required"`
	Amount   float64 `validate:"gt=0"`
	Note     string
}
