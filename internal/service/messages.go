package service

import (
	"time"

	"github.com/mmynk/khaja/internal/calculator"
	"github.com/mmynk/khaja/internal/models"
)

// Members

type ListMembersRequest struct {
	ActiveOnly bool `json:"activeOnly,omitempty"`
}

type ListMembersResponse struct {
	Members []models.Member `json:"members"`
}

type AddMemberRequest struct {
	Name string `json:"name"`
}

type AddMemberResponse struct {
	Member models.Member `json:"member"`
}

type ToggleMemberActiveRequest struct {
	MemberID string `json:"memberId"`
}

type ToggleMemberActiveResponse struct {
	Member models.Member `json:"member"`
}

type DeleteMemberRequest struct {
	MemberID string `json:"memberId"`
}

type DeleteMemberResponse struct {
	Member models.Member `json:"member"`
}

// Records

// Share is one participant's resolved share of a record.
type Share struct {
	MemberID string  `json:"memberId"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
}

// Record is a stored lunch record with its resolved split.
type Record struct {
	models.LunchRecord
	Shares       []Share `json:"shares"`
	SplitSummary string  `json:"splitSummary"`
}

type ListRecordsRequest struct{}

type ListRecordsResponse struct {
	Records []Record `json:"records"`
}

type AddRecordRequest struct {
	Date              string             `json:"date"`
	Description       string             `json:"description"`
	Total             *float64           `json:"total,omitempty"`
	PaidByID          string             `json:"paidById"`
	ParticipantIDs    []string           `json:"participantIds"`
	ParticipantShares map[string]float64 `json:"participantShares,omitempty"`
	Note              string             `json:"note"`
}

type AddRecordResponse struct {
	Record Record `json:"record"`
}

// Payments

type ListPaymentsRequest struct{}

type ListPaymentsResponse struct {
	Payments []models.Payment `json:"payments"`
}

type AddPaymentRequest struct {
	Date     string  `json:"date"`
	MemberID string  `json:"memberId"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note"`
}

type AddPaymentResponse struct {
	Payment models.Payment `json:"payment"`
}

// Clearing

type ClearRecordsRequest struct{}

type ClearRecordsResponse struct{}

type ClearPaymentsRequest struct{}

type ClearPaymentsResponse struct{}

type ClearAllDataRequest struct{}

type ClearAllDataResponse struct{}

// Settlement

type Balance struct {
	MemberID string  `json:"memberId"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
}

type Settlement struct {
	FromMemberID string  `json:"fromMemberId"`
	FromName     string  `json:"fromName"`
	ToMemberID   string  `json:"toMemberId"`
	ToName       string  `json:"toName"`
	Amount       float64 `json:"amount"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances    []Balance    `json:"balances"`
	Settlements []Settlement `json:"settlements"`
}

type Receivable struct {
	MemberID       string  `json:"memberId"`
	Name           string  `json:"name"`
	GrossAmount    float64 `json:"grossAmount"`
	ReceivedAmount float64 `json:"receivedAmount"`
	Amount         float64 `json:"amount"`
}

type GetReceivablesRequest struct{}

type GetReceivablesResponse struct {
	Receivables []Receivable `json:"receivables"`
	Total       float64      `json:"total"`
}

type GetDashboardRequest struct {
	// Today is the reference day as YYYY-MM-DD. Defaults to the server's date.
	Today string `json:"today,omitempty"`
}

type GetDashboardResponse struct {
	TodayTotal float64 `json:"todayTotal"`
	TodayCount int     `json:"todayCount"`
	MonthTotal float64 `json:"monthTotal"`
	GrandTotal float64 `json:"grandTotal"`
}

// Sync

type GetSyncStatusRequest struct{}

type GetSyncStatusResponse struct {
	Dirty        bool       `json:"dirty"`
	LastError    string     `json:"lastError,omitempty"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

// Auth

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

// Conversions

func toRecord(r models.LunchRecord) Record {
	entries := calculator.ShareEntries(r)
	shares := make([]Share, len(entries))
	for i, e := range entries {
		shares[i] = Share{MemberID: e.MemberID, Name: e.Name, Amount: e.Amount}
	}
	return Record{
		LunchRecord:  r,
		Shares:       shares,
		SplitSummary: calculator.SplitSummary(r),
	}
}

func toRecords(records []models.LunchRecord) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = toRecord(r)
	}
	return out
}

func toBalances(balances []calculator.Balance) []Balance {
	out := make([]Balance, len(balances))
	for i, b := range balances {
		out[i] = Balance{MemberID: b.MemberID, Name: b.Name, Amount: b.Amount}
	}
	return out
}

func toSettlements(edges []calculator.DebtEdge) []Settlement {
	out := make([]Settlement, len(edges))
	for i, e := range edges {
		out[i] = Settlement{
			FromMemberID: e.From,
			FromName:     e.FromName,
			ToMemberID:   e.To,
			ToName:       e.ToName,
			Amount:       e.Amount,
		}
	}
	return out
}

func toReceivables(summary calculator.ReceivableSummary) []Receivable {
	out := make([]Receivable, len(summary.Members))
	for i, r := range summary.Members {
		out[i] = Receivable{
			MemberID:       r.MemberID,
			Name:           r.Name,
			GrossAmount:    r.GrossAmount,
			ReceivedAmount: r.ReceivedAmount,
			Amount:         r.Amount,
		}
	}
	return out
}

func toUser(u *models.User) User {
	return User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}
