package models

import (
	"maps"
	"slices"
	"sort"
	"time"
)

// Snapshot is the full state of one workspace: members, records and payments.
// It is loaded, replaced and saved as a unit.
type Snapshot struct {
	Members  []Member      `json:"members" bson:"members"`
	Records  []LunchRecord `json:"records" bson:"records"`
	Payments []Payment     `json:"payments" bson:"payments"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Members:  slices.Clone(s.Members),
		Records:  make([]LunchRecord, len(s.Records)),
		Payments: slices.Clone(s.Payments),
	}
	for i, r := range s.Records {
		r.ParticipantIDs = slices.Clone(r.ParticipantIDs)
		r.ParticipantNames = slices.Clone(r.ParticipantNames)
		r.ParticipantShares = maps.Clone(r.ParticipantShares)
		out.Records[i] = r
	}
	if out.Members == nil {
		out.Members = []Member{}
	}
	if out.Payments == nil {
		out.Payments = []Payment{}
	}
	return out
}

// Normalize drops malformed entries and restores the display ordering
// (records and payments by date, newest first). It is applied to
// snapshots coming from storage.
func (s Snapshot) Normalize(now time.Time) Snapshot {
	stamp := now.UTC().Format(time.RFC3339)
	out := Snapshot{
		Members:  []Member{},
		Records:  []LunchRecord{},
		Payments: []Payment{},
	}

	for _, m := range s.Members {
		if m.ID == "" || m.Name == "" {
			continue
		}
		if m.CreatedAt == "" {
			m.CreatedAt = stamp
		}
		out.Members = append(out.Members, m)
	}

	for _, r := range s.Records {
		if r.ID == "" {
			continue
		}
		if r.ParticipantIDs == nil {
			r.ParticipantIDs = []string{}
		}
		if r.ParticipantNames == nil {
			r.ParticipantNames = []string{}
		}
		if r.ParticipantShares == nil {
			r.ParticipantShares = map[string]float64{}
		}
		out.Records = append(out.Records, r)
	}

	for _, p := range s.Payments {
		if p.ID == "" || p.MemberID == "" || p.Amount <= 0 {
			continue
		}
		if p.Date == "" {
			p.Date = now.Format(time.DateOnly)
		}
		if p.MemberName == "" {
			p.MemberName = UnknownName
		}
		if p.CreatedAt == "" {
			p.CreatedAt = stamp
		}
		out.Payments = append(out.Payments, p)
	}

	SortRecords(out.Records)
	SortPayments(out.Payments)
	return out
}

// UnknownName is shown for references to members that no longer exist.
const UnknownName = "Unknown"

// SortRecords orders records by date, newest first. The sort is stable so
// records from the same day keep their insertion order.
func SortRecords(records []LunchRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}

// SortPayments orders payments by date, newest first.
func SortPayments(payments []Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Date > payments[j].Date
	})
}
