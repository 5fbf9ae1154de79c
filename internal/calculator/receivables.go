package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/khaja/internal/models"
)

// Receivable is what one member still owes the payer of the records.
type Receivable struct {
	MemberID       string
	Name           string
	GrossAmount    float64 // sum of shares on records paid by someone else
	ReceivedAmount float64 // sum of the member's payments
	Amount         float64 // pending: max(0, gross - received)
}

// ReceivableSummary lists members with a pending amount and their total.
type ReceivableSummary struct {
	Members []Receivable
	Total   float64
}

// Receivables computes outstanding amounts from the perspective of a single
// payer: for every record, each participant other than that record's payer
// owes their share. Payments reduce the member's pending amount, never below
// zero. Members with nothing pending are omitted; the rest are sorted by
// pending amount descending. Total is the sum of the reported amounts.
//
// Payments without a member or with a non-positive amount are ignored.
func Receivables(records []models.LunchRecord, payments []models.Payment) ReceivableSummary {
	gross := newLedgerTotals()
	for _, record := range records {
		for _, share := range resolveShares(record) {
			if record.PaidByID != "" && share.id == record.PaidByID {
				continue
			}
			mt := gross.get(share.key, share.name)
			mt.amount = mt.amount.Add(share.amount)
		}
	}

	received := make(map[string]decimal.Decimal)
	for _, p := range payments {
		if p.MemberID == "" || !isFinite(p.Amount) || p.Amount <= 0 {
			continue
		}
		received[p.MemberID] = received[p.MemberID].Add(dec(p.Amount))
	}

	summary := ReceivableSummary{Members: []Receivable{}}
	total := decimal.Zero
	for _, mt := range gross.order {
		paid := received[mt.key]
		pending := decimal.Max(decimal.Zero, mt.amount.Sub(paid))
		amount := cents(pending)
		if amount <= 0 {
			continue
		}
		summary.Members = append(summary.Members, Receivable{
			MemberID:       mt.key,
			Name:           mt.name,
			GrossAmount:    cents(mt.amount),
			ReceivedAmount: cents(paid),
			Amount:         amount,
		})
		total = total.Add(dec(amount))
	}
	sort.SliceStable(summary.Members, func(i, j int) bool {
		return summary.Members[i].Amount > summary.Members[j].Amount
	})
	summary.Total = cents(total)
	return summary
}
