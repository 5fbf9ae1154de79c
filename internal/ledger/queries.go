package ledger

import (
	"maps"
	"slices"
	"time"

	"github.com/mmynk/khaja/internal/calculator"
	"github.com/mmynk/khaja/internal/models"
)

// Snapshot returns a copy of the full state.
func (l *Ledger) Snapshot() models.Snapshot {
	l.mustInit()
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Clone()
}

// Members returns all members in creation order.
func (l *Ledger) Members() []models.Member {
	return l.Snapshot().Members
}

// ActiveMembers returns the members offered for new records.
func (l *Ledger) ActiveMembers() []models.Member {
	members := l.Members()
	return slices.DeleteFunc(members, func(m models.Member) bool { return !m.Active })
}

// Records returns all records, newest first.
func (l *Ledger) Records() []models.LunchRecord {
	return l.Snapshot().Records
}

// Payments returns all payments, newest first.
func (l *Ledger) Payments() []models.Payment {
	return l.Snapshot().Payments
}

// Balances returns every member's net position.
func (l *Ledger) Balances() []calculator.Balance {
	return calculator.Balances(l.Records())
}

// Receivables returns the pending amounts per member.
func (l *Ledger) Receivables() calculator.ReceivableSummary {
	s := l.Snapshot()
	return calculator.Receivables(s.Records, s.Payments)
}

// Dashboard returns spending totals relative to today.
func (l *Ledger) Dashboard(today time.Time) calculator.Dashboard {
	return calculator.DashboardStats(l.Records(), today)
}

func cloneRecord(r models.LunchRecord) models.LunchRecord {
	r.ParticipantIDs = slices.Clone(r.ParticipantIDs)
	r.ParticipantNames = slices.Clone(r.ParticipantNames)
	r.ParticipantShares = maps.Clone(r.ParticipantShares)
	return r
}
