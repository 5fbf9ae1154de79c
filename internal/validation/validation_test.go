package validation

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/khaja/internal/models"
)

var members = []models.Member{
	{ID: "A", Name: "Asha", Active: true},
	{ID: "B", Name: "Bikash", Active: true},
	{ID: "C", Name: "Chandra", Active: false},
}

func total(v float64) *float64 { return &v }

func TestValidateMember(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "trims the name", input: "  Dipesh ", want: "Dipesh"},
		{name: "blank name", input: "   ", wantErr: ErrEmptyName},
		{name: "duplicate ignoring case", input: "asha", wantErr: ErrDuplicateName},
		{name: "duplicate after trimming", input: " BIKASH\t", wantErr: ErrDuplicateName},
		{name: "inactive members still count", input: "chandra", wantErr: ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateMember(tt.input, members)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateMemberDeletion(t *testing.T) {
	records := []models.LunchRecord{
		{ID: "r1", PaidByID: "A", ParticipantIDs: []string{"A", "B"}},
	}
	payments := []models.Payment{{ID: "p1", MemberID: "C", Amount: 10}}

	assert.ErrorIs(t, ValidateMemberDeletion("A", records, payments), ErrMemberInUse, "payer")
	assert.ErrorIs(t, ValidateMemberDeletion("B", records, payments), ErrMemberInUse, "participant")
	assert.ErrorIs(t, ValidateMemberDeletion("C", records, payments), ErrMemberInUse, "payment subject")
	assert.NoError(t, ValidateMemberDeletion("D", records, payments))
	assert.NoError(t, ValidateMemberDeletion("A", nil, nil))
}

func TestValidateRecord(t *testing.T) {
	valid := func() models.RecordInput {
		return models.RecordInput{
			Date:           "2024-05-10",
			Total:          total(300),
			PaidByID:       "A",
			ParticipantIDs: []string{"A", "B", "C"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(in *models.RecordInput)
		wantErr error
	}{
		{name: "valid equal split", mutate: func(in *models.RecordInput) {}},
		{name: "missing date", mutate: func(in *models.RecordInput) { in.Date = "" }, wantErr: ErrMissingDate},
		{name: "malformed date", mutate: func(in *models.RecordInput) { in.Date = "10/05/2024" }, wantErr: ErrInvalidDate},
		{name: "whitespace date", mutate: func(in *models.RecordInput) { in.Date = " \t " }, wantErr: ErrMissingDate},
		{name: "date error wins over missing payer", mutate: func(in *models.RecordInput) { in.Date = "2024-13-01"; in.PaidByID = "" }, wantErr: ErrInvalidDate},
		{name: "total error wins over missing payer", mutate: func(in *models.RecordInput) { in.Total = total(0); in.PaidByID = "" }, wantErr: ErrInvalidTotal},
		{name: "zero total", mutate: func(in *models.RecordInput) { in.Total = total(0) }, wantErr: ErrInvalidTotal},
		{name: "negative total", mutate: func(in *models.RecordInput) { in.Total = total(-5) }, wantErr: ErrInvalidTotal},
		{name: "infinite total", mutate: func(in *models.RecordInput) { in.Total = total(math.Inf(1)) }, wantErr: ErrInvalidTotal},
		{name: "no total and no shares", mutate: func(in *models.RecordInput) { in.Total = nil }, wantErr: ErrInvalidTotal},
		{name: "missing payer", mutate: func(in *models.RecordInput) { in.PaidByID = "" }, wantErr: ErrMissingPayer},
		{name: "no participants", mutate: func(in *models.RecordInput) { in.ParticipantIDs = nil }, wantErr: ErrNoParticipants},
		{name: "blank participants only", mutate: func(in *models.RecordInput) { in.ParticipantIDs = []string{"", ""} }, wantErr: ErrNoParticipants},
		{
			name: "negative share",
			mutate: func(in *models.RecordInput) {
				in.ParticipantShares = map[string]float64{"A": 350, "B": -50, "C": 0}
			},
			wantErr: ErrNegativeShare,
		},
		{
			name: "shares disagree with total",
			mutate: func(in *models.RecordInput) {
				in.Total = total(100)
				in.ParticipantIDs = []string{"A", "B"}
				in.ParticipantShares = map[string]float64{"A": 40, "B": 40}
			},
			wantErr: ErrShareMismatch,
		},
		{
			name: "shares within a cent of total",
			mutate: func(in *models.RecordInput) {
				in.Total = total(100)
				in.ParticipantIDs = []string{"A", "B", "C"}
				in.ParticipantShares = map[string]float64{"A": 33.33, "B": 33.33, "C": 33.33}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := ValidateRecord(in, members)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateRecord_Normalizes(t *testing.T) {
	record, err := ValidateRecord(models.RecordInput{
		Date:              " 2024-05-10 ",
		Description:       "   ",
		Total:             total(99.999),
		PaidByID:          "A",
		ParticipantIDs:    []string{"B", "", "X", "B"},
		ParticipantShares: map[string]float64{"Z": 10},
		Note:              "  paid in cash ",
	}, members)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-10", record.Date)
	assert.Equal(t, DefaultDescription, record.Description)
	assert.Equal(t, 100.0, record.Total)
	assert.Equal(t, "Asha", record.PaidByName)
	assert.Equal(t, []string{"B", "X"}, record.ParticipantIDs)
	assert.Equal(t, []string{"Bikash", models.UnknownName}, record.ParticipantNames)
	assert.Empty(t, record.ParticipantShares, "no custom shares means equal split")
	assert.Equal(t, "paid in cash", record.Note)
	assert.Empty(t, record.ID)
}

func TestValidateRecord_TotalFromShares(t *testing.T) {
	record, err := ValidateRecord(models.RecordInput{
		Date:              "2024-05-10",
		PaidByID:          "A",
		ParticipantIDs:    []string{"A", "B"},
		ParticipantShares: map[string]float64{"A": 120.5, "B": 79.5},
	}, members)
	require.NoError(t, err)

	assert.Equal(t, 200.0, record.Total)
	assert.Equal(t, map[string]float64{"A": 120.5, "B": 79.5}, record.ParticipantShares)
}

func TestValidatePayment(t *testing.T) {
	tests := []struct {
		name    string
		input   models.PaymentInput
		wantErr error
	}{
		{name: "valid", input: models.PaymentInput{Date: "2024-05-11", MemberID: "B", Amount: 60}},
		{name: "missing date", input: models.PaymentInput{MemberID: "B", Amount: 60}, wantErr: ErrMissingDate},
		{name: "missing member", input: models.PaymentInput{Date: "2024-05-11", Amount: 60}, wantErr: ErrMissingMember},
		{name: "zero amount", input: models.PaymentInput{Date: "2024-05-11", MemberID: "B"}, wantErr: ErrInvalidAmount},
		{name: "whitespace date", input: models.PaymentInput{Date: "  ", MemberID: "B", Amount: 60}, wantErr: ErrMissingDate},
		{name: "malformed date", input: models.PaymentInput{Date: "2024-5-11", MemberID: "B", Amount: 60}, wantErr: ErrInvalidDate},
		{name: "missing member wins over bad amount", input: models.PaymentInput{Date: "2024-05-11", Amount: -1}, wantErr: ErrMissingMember},
		{name: "infinite amount", input: models.PaymentInput{Date: "2024-05-11", MemberID: "B", Amount: math.Inf(1)}, wantErr: ErrInvalidAmount},
		{name: "NaN amount", input: models.PaymentInput{Date: "2024-05-11", MemberID: "B", Amount: math.NaN()}, wantErr: ErrInvalidAmount},
		{name: "unknown member", input: models.PaymentInput{Date: "2024-05-11", MemberID: "Z", Amount: 5}, wantErr: ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, err := ValidatePayment(tt.input, members)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Bikash", member.Name)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(fmt.Errorf("add member: %w", ErrDuplicateName)))
	assert.False(t, IsValidationError(fmt.Errorf("database is locked")))
	assert.False(t, IsValidationError(nil))
}

func TestFieldErrors(t *testing.T) {
	failed, err := fieldErrors(models.PaymentInput{Date: "11-05-2024", Amount: -2})
	require.NoError(t, err)
	assert.Equal(t, map[string]error{
		"Date":     ErrInvalidDate,
		"MemberID": ErrMissingMember,
		"Amount":   ErrInvalidAmount,
	}, failed)

	failed, err = fieldErrors(models.PaymentInput{Date: "2024-05-11", MemberID: "B", Amount: 1})
	require.NoError(t, err)
	assert.Empty(t, failed)
}
