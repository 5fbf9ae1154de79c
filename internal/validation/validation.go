// Package validation enforces the business rules applied before a member,
// lunch record or payment is accepted into a workspace.
//
// Every rule violation is reported as one of the sentinel errors below. The
// error text is the human-readable reason shown to the user; callers match
// with errors.Is.
package validation

import (
	"errors"
	"math"
	"slices"
	"strings"

	"github.com/mmynk/khaja/internal/calculator"
	"github.com/mmynk/khaja/internal/models"
)

var (
	ErrEmptyName      = errors.New("enter a member name")
	ErrDuplicateName  = errors.New("member already exists")
	ErrMemberInUse    = errors.New("member is used in records or payments, mark inactive instead")
	ErrMissingDate    = errors.New("select a date")
	ErrInvalidDate    = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTotal   = errors.New("enter a valid total amount")
	ErrMissingPayer   = errors.New("select who paid")
	ErrNoParticipants = errors.New("select at least one participant")
	ErrNegativeShare  = errors.New("amount cannot be negative")
	ErrShareMismatch  = errors.New("total amount must match sum of participant amounts")
	ErrMissingMember  = errors.New("select member")
	ErrMemberNotFound = errors.New("selected member not found")
	ErrInvalidAmount  = errors.New("enter a valid amount")
)

// DefaultDescription is used for records submitted without a description.
const DefaultDescription = "Office lunch"

// IsValidationError reports whether err is one of this package's rule violations.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyName, ErrDuplicateName, ErrMemberInUse, ErrMissingDate, ErrInvalidDate,
		ErrInvalidTotal, ErrMissingPayer, ErrNoParticipants, ErrNegativeShare,
		ErrShareMismatch, ErrMissingMember, ErrMemberNotFound, ErrInvalidAmount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ValidateMember checks a new member name against the existing members and
// returns the trimmed name.
func ValidateMember(name string, existing []models.Member) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	for _, m := range existing {
		if strings.EqualFold(m.Name, trimmed) {
			return "", ErrDuplicateName
		}
	}
	return trimmed, nil
}

// ValidateMemberDeletion fails with ErrMemberInUse when the member paid for
// or took part in any record, or made any payment.
func ValidateMemberDeletion(memberID string, records []models.LunchRecord, payments []models.Payment) error {
	for _, r := range records {
		if r.PaidByID == memberID || slices.Contains(r.ParticipantIDs, memberID) {
			return ErrMemberInUse
		}
	}
	for _, p := range payments {
		if p.MemberID == memberID {
			return ErrMemberInUse
		}
	}
	return nil
}

// ValidateRecord checks a record submission and returns the normalized
// record, without ID and creation time.
//
// Participant IDs are de-duplicated and blanks dropped. Shares are kept only
// for listed participants; when none is non-zero the record carries no
// shares and the total is split equally at read time. Without an explicit
// total, the sum of the shares is used.
func ValidateRecord(input models.RecordInput, members []models.Member) (models.LunchRecord, error) {
	participantIDs := make([]string, 0, len(input.ParticipantIDs))
	for _, id := range input.ParticipantIDs {
		if id != "" && !slices.Contains(participantIDs, id) {
			participantIDs = append(participantIDs, id)
		}
	}

	shares := make(map[string]float64, len(participantIDs))
	custom := false
	negative := false
	for _, id := range participantIDs {
		share := input.ParticipantShares[id]
		if math.IsNaN(share) || math.IsInf(share, 0) {
			share = 0
		}
		shares[id] = share
		if share != 0 {
			custom = true
		}
		if share < 0 {
			negative = true
		}
	}
	sharesTotal := calculator.ShareTotal(shares, participantIDs)

	total := sharesTotal
	if input.Total != nil {
		total = *input.Total
	}

	date := strings.TrimSpace(input.Date)
	failed, err := fieldErrors(models.RecordInput{
		Date:           date,
		PaidByID:       input.PaidByID,
		ParticipantIDs: participantIDs,
	})
	if err != nil {
		return models.LunchRecord{}, err
	}
	if err := firstFailure(failed, "Date"); err != nil {
		return models.LunchRecord{}, err
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return models.LunchRecord{}, ErrInvalidTotal
	}
	if err := firstFailure(failed, "PaidByID", "ParticipantIDs"); err != nil {
		return models.LunchRecord{}, err
	}
	if negative {
		return models.LunchRecord{}, ErrNegativeShare
	}
	if custom && !calculator.WithinTolerance(sharesTotal, total) {
		return models.LunchRecord{}, ErrShareMismatch
	}
	if !custom {
		shares = map[string]float64{}
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	nameOf := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return models.UnknownName
	}
	participantNames := make([]string, len(participantIDs))
	for i, id := range participantIDs {
		participantNames[i] = nameOf(id)
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = DefaultDescription
	}

	return models.LunchRecord{
		Date:              date,
		Description:       description,
		Total:             calculator.Round2(total),
		PaidByID:          input.PaidByID,
		PaidByName:        nameOf(input.PaidByID),
		ParticipantIDs:    participantIDs,
		ParticipantNames:  participantNames,
		ParticipantShares: shares,
		Note:              strings.TrimSpace(input.Note),
	}, nil
}

// ValidatePayment checks a payment submission and returns the paying member.
func ValidatePayment(input models.PaymentInput, members []models.Member) (models.Member, error) {
	failed, err := fieldErrors(models.PaymentInput{
		Date:     strings.TrimSpace(input.Date),
		MemberID: input.MemberID,
		Amount:   input.Amount,
	})
	if err != nil {
		return models.Member{}, err
	}
	if err := firstFailure(failed, "Date", "MemberID", "Amount"); err != nil {
		return models.Member{}, err
	}
	// gt=0 lets +Inf through.
	if math.IsInf(input.Amount, 0) {
		return models.Member{}, ErrInvalidAmount
	}
	for _, m := range members {
		if m.ID == input.MemberID {
			return m, nil
		}
	}
	return models.Member{}, ErrMemberNotFound
}
