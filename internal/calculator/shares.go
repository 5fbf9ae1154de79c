package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/khaja/internal/models"
)

// ShareEntry is one participant's resolved share of a record.
type ShareEntry struct {
	MemberID string
	Name     string
	Amount   float64
}

type resolvedShare struct {
	key    string
	id     string
	name   string
	amount decimal.Decimal
}

// resolveShares is the single place where the equal-split fallback lives.
// A participant pays their explicit share when the record has custom shares
// and the stored value is finite, otherwise total / participant count.
func resolveShares(record models.LunchRecord) []resolvedShare {
	count := len(record.ParticipantIDs)
	if count == 0 {
		return nil
	}

	custom := record.HasCustomShares()
	equal := dec(record.Total).Div(decimal.NewFromInt(int64(count)))

	shares := make([]resolvedShare, count)
	for i, id := range record.ParticipantIDs {
		amount := equal
		if custom {
			if stored, ok := record.ParticipantShares[id]; ok && isFinite(stored) {
				amount = dec(stored)
			}
		}
		name := models.UnknownName
		if i < len(record.ParticipantNames) && record.ParticipantNames[i] != "" {
			name = record.ParticipantNames[i]
		}
		shares[i] = resolvedShare{
			key:    memberKey(id, name),
			id:     id,
			name:   name,
			amount: amount,
		}
	}
	return shares
}

// memberKey identifies a member across records. Legacy entries without an
// ID are keyed by name.
func memberKey(id, name string) string {
	if id != "" {
		return id
	}
	return "name_" + name
}

// ShareEntries returns each participant's share of the record, in the
// record's participant order, rounded to cents.
func ShareEntries(record models.LunchRecord) []ShareEntry {
	shares := resolveShares(record)
	entries := make([]ShareEntry, len(shares))
	for i, s := range shares {
		entries[i] = ShareEntry{
			MemberID: s.key,
			Name:     s.name,
			Amount:   cents(s.amount),
		}
	}
	return entries
}

// PerHead is the equal-split amount of a record, or 0 without participants.
func PerHead(record models.LunchRecord) float64 {
	if len(record.ParticipantIDs) == 0 {
		return 0
	}
	return cents(dec(record.Total).Div(decimal.NewFromInt(int64(len(record.ParticipantIDs)))))
}

// ShareTotal sums the explicit shares of the listed participants.
func ShareTotal(shares map[string]float64, participantIDs []string) float64 {
	sum := decimal.Zero
	for _, id := range participantIDs {
		sum = sum.Add(dec(shares[id]))
	}
	return cents(sum)
}

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatCurrency renders an amount in Indian rupees.
func FormatCurrency(amount float64) string {
	return inr.Sprint(currency.Symbol(currency.INR.Amount(Round2(amount))))
}

// SplitSummary renders "Name: ₹x, Name: ₹y" for a record, or "-" when the
// record has no participants.
func SplitSummary(record models.LunchRecord) string {
	entries := ShareEntries(record)
	if len(entries) == 0 {
		return "-"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Name, FormatCurrency(e.Amount))
	}
	return strings.Join(parts, ", ")
}
