package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/khaja/internal/models"
	"github.com/mmynk/khaja/internal/validation"
)

type countingRecorder struct {
	ok, rejected map[string]int
}

func (r *countingRecorder) LedgerMutation(operation string, err error) {
	if err != nil {
		r.rejected[operation]++
		return
	}
	r.ok[operation]++
}

func newTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	seq := 0
	clock := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	base := []Option{
		WithClock(func() time.Time { return clock }),
		WithIDGenerator(func(prefix string) string {
			seq++
			return fmt.Sprintf("%s_%d", prefix, seq)
		}),
	}
	return New(models.Snapshot{}, append(base, opts...)...)
}

func addMembers(t *testing.T, l *Ledger, names ...string) []models.Member {
	t.Helper()
	var out []models.Member
	for _, name := range names {
		m, err := l.AddMember(name)
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func total(v float64) *float64 { return &v }

func TestAddMember(t *testing.T) {
	l := newTestLedger(t)

	m, err := l.AddMember("  Asha ")
	require.NoError(t, err)
	assert.Equal(t, "member_1", m.ID)
	assert.Equal(t, "Asha", m.Name)
	assert.True(t, m.Active)
	assert.Equal(t, "2024-05-10T12:00:00Z", m.CreatedAt)

	_, err = l.AddMember("ASHA")
	assert.ErrorIs(t, err, validation.ErrDuplicateName)

	_, err = l.AddMember(" ")
	assert.ErrorIs(t, err, validation.ErrEmptyName)

	assert.Len(t, l.Members(), 1)
}

func TestToggleMemberActive(t *testing.T) {
	l := newTestLedger(t)
	members := addMembers(t, l, "Asha", "Bikash")

	m, err := l.ToggleMemberActive(members[0].ID)
	require.NoError(t, err)
	assert.False(t, m.Active)

	active := l.ActiveMembers()
	require.Len(t, active, 1)
	assert.Equal(t, "Bikash", active[0].Name)

	m, err = l.ToggleMemberActive(members[0].ID)
	require.NoError(t, err)
	assert.True(t, m.Active)

	_, err = l.ToggleMemberActive("member_404")
	assert.ErrorIs(t, err, validation.ErrMemberNotFound)
}

func TestDeleteMember(t *testing.T) {
	l := newTestLedger(t)
	members := addMembers(t, l, "Asha", "Bikash", "Chandra", "Dipesh")
	a, b, c, d := members[0].ID, members[1].ID, members[2].ID, members[3].ID

	_, err := l.AddRecord(models.RecordInput{
		Date:           "2024-05-10",
		Total:          total(100),
		PaidByID:       a,
		ParticipantIDs: []string{b},
	})
	require.NoError(t, err)
	_, err = l.AddPayment(models.PaymentInput{Date: "2024-05-11", MemberID: c, Amount: 10})
	require.NoError(t, err)

	for _, id := range []string{a, b, c} {
		_, err := l.DeleteMember(id)
		assert.ErrorIs(t, err, validation.ErrMemberInUse, id)
	}
	assert.Len(t, l.Members(), 4, "rejected deletions must not change state")

	deleted, err := l.DeleteMember(d)
	require.NoError(t, err)
	assert.Equal(t, "Dipesh", deleted.Name)
	assert.Len(t, l.Members(), 3)

	_, err = l.DeleteMember(d)
	assert.ErrorIs(t, err, validation.ErrMemberNotFound)
}

func TestAddRecord(t *testing.T) {
	l := newTestLedger(t)
	members := addMembers(t, l, "Asha", "Bikash", "Chandra")
	a, b, c := members[0].ID, members[1].ID, members[2].ID

	older, err := l.AddRecord(models.RecordInput{
		Date:           "2024-05-01",
		Total:          total(300),
		PaidByID:       a,
		ParticipantIDs: []string{a, b, c},
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", older.PaidByName)
	assert.Equal(t, []string{"Asha", "Bikash", "Chandra"}, older.ParticipantNames)
	assert.Equal(t, "Office lunch", older.Description)

	newer, err := l.AddRecord(models.RecordInput{
		Date:              "2024-05-09",
		PaidByID:          b,
		ParticipantIDs:    []string{a, b},
		ParticipantShares: map[string]float64{a: 70, b: 30},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, newer.Total)

	records := l.Records()
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].ID, "newest date first")

	_, err = l.AddRecord(models.RecordInput{
		Date:              "2024-05-10",
		Total:             total(100),
		PaidByID:          a,
		ParticipantIDs:    []string{a, b},
		ParticipantShares: map[string]float64{a: 40, b: 40},
	})
	assert.ErrorIs(t, err, validation.ErrShareMismatch)
	assert.Len(t, l.Records(), 2)
}

func TestAddPayment(t *testing.T) {
	l := newTestLedger(t)
	members := addMembers(t, l, "Asha")

	p, err := l.AddPayment(models.PaymentInput{Date: "2024-05-11", MemberID: members[0].ID, Amount: 59.999, Note: " cash "})
	require.NoError(t, err)
	assert.Equal(t, 60.0, p.Amount)
	assert.Equal(t, "Asha", p.MemberName)
	assert.Equal(t, "cash", p.Note)

	_, err = l.AddPayment(models.PaymentInput{Date: "2024-05-11", MemberID: "member_404", Amount: 5})
	assert.ErrorIs(t, err, validation.ErrMemberNotFound)
	assert.Len(t, l.Payments(), 1)
}

func TestReceivablesAfterPayment(t *testing.T) {
	l := newTestLedger(t)
	members := addMembers(t, l, "A", "B", "C")
	a, b, c := members[0].ID, members[1].ID, members[2].ID

	_, err := l.AddRecord(models.RecordInput{
		Date:           "2024-05-10",
		Total:          total(300),
		PaidByID:       a,
		ParticipantIDs: []string{a, b, c},
	})
	require.NoError(t, err)

	summary := l.Receivables()
	require.Len(t, summary.Members, 2)
	assert.Equal(t, 200.0, summary.Total)

	_, err = l.AddPayment(models.PaymentInput{Date: "2024-05-11", MemberID: b, Amount: 60})
	require.NoError(t, err)

	pending := map[string]float64{}
	for _, r := range l.Receivables().Members {
		pending[r.MemberID] = r.Amount
	}
	assert.Equal(t, map[string]float64{b: 40, c: 100}, pending)

	balances := l.Balances()
	require.Len(t, balances, 3)
	assert.Equal(t, a, balances[0].MemberID)
	assert.Equal(t, 200.0, balances[0].Amount)

	dash := l.Dashboard(time.Date(2024, time.May, 10, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, dash.TodayCount)
	assert.Equal(t, 300.0, dash.MonthTotal)
}

func TestClearOperations(t *testing.T) {
	setup := func(t *testing.T) *Ledger {
		l := newTestLedger(t)
		members := addMembers(t, l, "Asha", "Bikash")
		_, err := l.AddRecord(models.RecordInput{
			Date: "2024-05-10", Total: total(50), PaidByID: members[0].ID, ParticipantIDs: []string{members[1].ID},
		})
		require.NoError(t, err)
		_, err = l.AddPayment(models.PaymentInput{Date: "2024-05-10", MemberID: members[1].ID, Amount: 50})
		require.NoError(t, err)
		return l
	}

	t.Run("ClearPayments keeps records", func(t *testing.T) {
		l := setup(t)
		l.ClearPayments()
		assert.Len(t, l.Records(), 1)
		assert.Empty(t, l.Payments())
		assert.Len(t, l.Members(), 2)
	})

	t.Run("ClearRecords also clears payments", func(t *testing.T) {
		l := setup(t)
		l.ClearRecords()
		assert.Empty(t, l.Records())
		assert.Empty(t, l.Payments())
		assert.Len(t, l.Members(), 2)
	})

	t.Run("ClearAllData empties everything", func(t *testing.T) {
		l := setup(t)
		l.ClearAllData()
		s := l.Snapshot()
		assert.Empty(t, s.Members)
		assert.Empty(t, s.Records)
		assert.Empty(t, s.Payments)
		assert.NotNil(t, s.Members)
	})
}

func TestOnChangeAndRecorder(t *testing.T) {
	var snapshots []models.Snapshot
	rec := &countingRecorder{ok: map[string]int{}, rejected: map[string]int{}}
	l := newTestLedger(t,
		WithOnChange(func(s models.Snapshot) { snapshots = append(snapshots, s) }),
		WithRecorder(rec),
	)

	addMembers(t, l, "Asha")
	_, err := l.AddMember("asha")
	require.Error(t, err)
	l.ClearPayments()

	require.Len(t, snapshots, 2, "only successful mutations notify")
	assert.Len(t, snapshots[0].Members, 1)

	snapshots[0].Members[0].Name = "mutated"
	assert.Equal(t, "Asha", l.Members()[0].Name, "hook receives a copy")

	assert.Equal(t, 1, rec.ok["add_member"])
	assert.Equal(t, 1, rec.rejected["add_member"])
	assert.Equal(t, 1, rec.ok["clear_payments"])
}

func TestQueriesReturnCopies(t *testing.T) {
	l := newTestLedger(t)
	members := addMembers(t, l, "Asha", "Bikash")
	_, err := l.AddRecord(models.RecordInput{
		Date: "2024-05-10", Total: total(50), PaidByID: members[0].ID, ParticipantIDs: []string{members[1].ID},
	})
	require.NoError(t, err)

	records := l.Records()
	records[0].ParticipantIDs[0] = "tampered"
	assert.Equal(t, members[1].ID, l.Records()[0].ParticipantIDs[0])
}

func TestNewCopiesInitialSnapshot(t *testing.T) {
	initial := models.Snapshot{Members: []models.Member{{ID: "m1", Name: "Asha", Active: true}}}
	l := New(initial)
	initial.Members[0].Name = "changed"
	assert.Equal(t, "Asha", l.Members()[0].Name)
}

func TestUninitializedLedgerPanics(t *testing.T) {
	var l *Ledger
	assert.Panics(t, func() { l.Members() })
	assert.Panics(t, func() { (&Ledger{}).ClearAllData() })
}
