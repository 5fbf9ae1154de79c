package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/khaja/internal/models"
)

// Balance is a member's net position across all records.
type Balance struct {
	MemberID string
	Name     string
	Amount   float64 // Positive = owed money, Negative = owes money
}

// DebtEdge represents a suggested payment from one member to another.
type DebtEdge struct {
	From     string // Member who owes
	FromName string
	To       string // Member who is owed
	ToName   string
	Amount   float64
}

// ledgerTotals accumulates decimal amounts per member key, remembering
// first-seen order so ties sort deterministically.
type ledgerTotals struct {
	byKey map[string]*memberTotal
	order []*memberTotal
}

type memberTotal struct {
	key    string
	name   string
	amount decimal.Decimal
}

func newLedgerTotals() *ledgerTotals {
	return &ledgerTotals{byKey: make(map[string]*memberTotal)}
}

func (t *ledgerTotals) get(key, name string) *memberTotal {
	if mt, ok := t.byKey[key]; ok {
		return mt
	}
	mt := &memberTotal{key: key, name: name}
	t.byKey[key] = mt
	t.order = append(t.order, mt)
	return mt
}

// Balances computes every member's net balance across the records.
//
// Algorithm:
//   - each participant's resolved share is subtracted from their balance
//   - the record total is added to the payer's balance
//
// A payer who also participates therefore nets total - own share. The
// result has one entry per member seen in any record, sorted by amount
// descending (largest receivable first). Only the final amounts are rounded.
func Balances(records []models.LunchRecord) []Balance {
	totals := newLedgerTotals()

	for _, record := range records {
		for _, share := range resolveShares(record) {
			mt := totals.get(share.key, share.name)
			mt.amount = mt.amount.Sub(share.amount)
		}

		payerName := record.PaidByName
		if payerName == "" {
			payerName = models.UnknownName
		}
		payer := totals.get(memberKey(record.PaidByID, payerName), payerName)
		payer.amount = payer.amount.Add(dec(record.Total))
	}

	balances := make([]Balance, len(totals.order))
	for i, mt := range totals.order {
		balances[i] = Balance{
			MemberID: mt.key,
			Name:     mt.name,
			Amount:   cents(mt.amount),
		}
	}
	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Amount > balances[j].Amount
	})
	return balances
}

// SimplifyDebts turns net balances into a short list of payments that
// settles everyone.
//
// Greedy algorithm: the largest debtor pays the largest creditor as much as
// either side allows, then moves on. Amounts of a cent or less are treated
// as settled to absorb rounding noise.
func SimplifyDebts(balances []Balance) []DebtEdge {
	type party struct {
		id     string
		name   string
		amount decimal.Decimal
	}

	var creditors, debtors []*party
	for _, b := range balances {
		amount := dec(b.Amount)
		switch {
		case amount.GreaterThan(tolerance):
			creditors = append(creditors, &party{id: b.MemberID, name: b.Name, amount: amount})
		case amount.LessThan(tolerance.Neg()):
			debtors = append(debtors, &party{id: b.MemberID, name: b.Name, amount: amount.Neg()})
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount.GreaterThan(creditors[j].amount) })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount.GreaterThan(debtors[j].amount) })

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		amount := decimal.Min(debtor.amount, creditor.amount)
		if amount.GreaterThan(tolerance) {
			edges = append(edges, DebtEdge{
				From:     debtor.id,
				FromName: debtor.name,
				To:       creditor.id,
				ToName:   creditor.name,
				Amount:   cents(amount),
			})
		}

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)

		if debtor.amount.LessThanOrEqual(tolerance) {
			i++
		}
		if creditor.amount.LessThanOrEqual(tolerance) {
			j++
		}
	}
	return edges
}
