// Package ledger holds one workspace's members, lunch records and payments
// and applies validated mutations to them.
//
// The three collections are kept as a single models.Snapshot. Every mutation
// validates first, builds the next snapshot and swaps it in whole, so a
// rejected operation never leaves a partial update behind. Readers always
// receive copies.
package ledger

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/khaja/internal/calculator"
	"github.com/mmynk/khaja/internal/models"
	"github.com/mmynk/khaja/internal/validation"
)

// Recorder receives one call per mutation attempt.
type Recorder interface {
	LedgerMutation(operation string, err error)
}

// Ledger is the state store of one workspace. The zero value is not usable;
// create ledgers with New.
type Ledger struct {
	mu       sync.RWMutex
	state    models.Snapshot
	now      func() time.Time
	newID    func(prefix string) string
	onChange func(models.Snapshot)
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides ID generation. The generator receives the entity
// prefix ("member", "lunch", "payment").
func WithIDGenerator(newID func(prefix string) string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithOnChange registers a hook called with a copy of the snapshot after
// every successful mutation. It runs while the ledger is locked, so it must
// be quick and must not call back into the ledger.
func WithOnChange(fn func(models.Snapshot)) Option {
	return func(l *Ledger) { l.onChange = fn }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithRecorder sets the mutation recorder, usually *metrics.Metrics.
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) { l.recorder = r }
}

// New creates a ledger holding a copy of the given snapshot.
func New(snapshot models.Snapshot, opts ...Option) *Ledger {
	l := &Ledger{
		state: snapshot.Clone(),
		now:   time.Now,
		newID: func(prefix string) string {
			return prefix + "_" + uuid.NewString()
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

func (l *Ledger) mustInit() {
	if l == nil || l.now == nil {
		panic("ledger: use of uninitialized Ledger, create it with ledger.New")
	}
}

func (l *Ledger) timestamp() string {
	return l.now().UTC().Format(time.RFC3339)
}

// commit swaps in the next snapshot. Callers hold the write lock.
func (l *Ledger) commit(operation string, next models.Snapshot) {
	l.state = next
	l.record(operation, nil)
	if l.onChange != nil {
		l.onChange(next.Clone())
	}
}

func (l *Ledger) record(operation string, err error) {
	if l.recorder != nil {
		l.recorder.LedgerMutation(operation, err)
	}
	if err != nil {
		l.logger.Debug("Ledger operation rejected", "operation", operation, "reason", err.Error())
	}
}

// AddMember adds an active member with the given name.
func (l *Ledger) AddMember(name string) (models.Member, error) {
	l.mustInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	trimmed, err := validation.ValidateMember(name, l.state.Members)
	if err != nil {
		l.record("add_member", err)
		return models.Member{}, err
	}

	member := models.Member{
		ID:        l.newID("member"),
		Name:      trimmed,
		Active:    true,
		CreatedAt: l.timestamp(),
	}

	next := l.state.Clone()
	next.Members = append(next.Members, member)
	l.commit("add_member", next)

	l.logger.Debug("Member added", "member_id", member.ID, "name", member.Name)
	return member, nil
}

// ToggleMemberActive flips a member's active flag and returns the updated member.
func (l *Ledger) ToggleMemberActive(memberID string) (models.Member, error) {
	l.mustInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := slices.IndexFunc(l.state.Members, func(m models.Member) bool { return m.ID == memberID })
	if idx < 0 {
		l.record("toggle_member", validation.ErrMemberNotFound)
		return models.Member{}, validation.ErrMemberNotFound
	}

	next := l.state.Clone()
	next.Members[idx].Active = !next.Members[idx].Active
	member := next.Members[idx]
	l.commit("toggle_member", next)

	l.logger.Debug("Member toggled", "member_id", member.ID, "active", member.Active)
	return member, nil
}

// DeleteMember removes a member that no record or payment references and
// returns the removed member.
func (l *Ledger) DeleteMember(memberID string) (models.Member, error) {
	l.mustInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := validation.ValidateMemberDeletion(memberID, l.state.Records, l.state.Payments); err != nil {
		l.record("delete_member", err)
		return models.Member{}, err
	}
	idx := slices.IndexFunc(l.state.Members, func(m models.Member) bool { return m.ID == memberID })
	if idx < 0 {
		l.record("delete_member", validation.ErrMemberNotFound)
		return models.Member{}, validation.ErrMemberNotFound
	}

	next := l.state.Clone()
	member := next.Members[idx]
	next.Members = slices.Delete(next.Members, idx, idx+1)
	l.commit("delete_member", next)

	l.logger.Debug("Member deleted", "member_id", member.ID)
	return member, nil
}

// AddRecord validates and stores a new lunch record.
func (l *Ledger) AddRecord(input models.RecordInput) (models.LunchRecord, error) {
	l.mustInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	record, err := validation.ValidateRecord(input, l.state.Members)
	if err != nil {
		l.record("add_record", err)
		return models.LunchRecord{}, err
	}
	record.ID = l.newID("lunch")
	record.CreatedAt = l.timestamp()

	next := l.state.Clone()
	next.Records = append([]models.LunchRecord{record}, next.Records...)
	models.SortRecords(next.Records)
	l.commit("add_record", next)

	l.logger.Debug("Record added", "record_id", record.ID, "total", record.Total, "participants", len(record.ParticipantIDs))
	return cloneRecord(record), nil
}

// AddPayment validates and stores a payment received from a member.
func (l *Ledger) AddPayment(input models.PaymentInput) (models.Payment, error) {
	l.mustInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	member, err := validation.ValidatePayment(input, l.state.Members)
	if err != nil {
		l.record("add_payment", err)
		return models.Payment{}, err
	}

	payment := models.Payment{
		ID:         l.newID("payment"),
		Date:       strings.TrimSpace(input.Date),
		MemberID:   member.ID,
		MemberName: member.Name,
		Amount:     calculator.Round2(input.Amount),
		Note:       strings.TrimSpace(input.Note),
		CreatedAt:  l.timestamp(),
	}

	next := l.state.Clone()
	next.Payments = append([]models.Payment{payment}, next.Payments...)
	models.SortPayments(next.Payments)
	l.commit("add_payment", next)

	l.logger.Debug("Payment added", "payment_id", payment.ID, "member_id", member.ID, "amount", payment.Amount)
	return payment, nil
}

// ClearRecords removes all records and all payments.
func (l *Ledger) ClearRecords() {
	l.mustInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.state.Clone()
	next.Records = []models.LunchRecord{}
	next.Payments = []models.Payment{}
	l.commit("clear_records", next)
}

// ClearPayments removes all payments.
func (l *Ledger) ClearPayments() {
	l.mustInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.state.Clone()
	next.Payments = []models.Payment{}
	l.commit("clear_payments", next)
}

// ClearAllData removes members, records and payments.
func (l *Ledger) ClearAllData() {
	l.mustInit()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.commit("clear_all", models.Snapshot{}.Clone())
}
