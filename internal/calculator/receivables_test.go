package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/khaja/internal/models"
)

func TestReceivables(t *testing.T) {
	records := []models.LunchRecord{lunch(300, "A", []string{"A", "B", "C"}, nil)}

	tests := []struct {
		name      string
		payments  []models.Payment
		wantIDs   []string
		wantAmts  []float64
		wantTotal float64
	}{
		{
			name:      "no payments",
			wantIDs:   []string{"B", "C"},
			wantAmts:  []float64{100, 100},
			wantTotal: 200,
		},
		{
			name:      "partial payment reduces pending",
			payments:  []models.Payment{{ID: "p1", MemberID: "B", Amount: 60}},
			wantIDs:   []string{"C", "B"},
			wantAmts:  []float64{100, 40},
			wantTotal: 140,
		},
		{
			name: "fully paid member is excluded",
			payments: []models.Payment{
				{ID: "p1", MemberID: "B", Amount: 60},
				{ID: "p2", MemberID: "B", Amount: 40},
			},
			wantIDs:   []string{"C"},
			wantAmts:  []float64{100},
			wantTotal: 100,
		},
		{
			name:      "overpayment clamps at zero",
			payments:  []models.Payment{{ID: "p1", MemberID: "C", Amount: 500}},
			wantIDs:   []string{"B"},
			wantAmts:  []float64{100},
			wantTotal: 100,
		},
		{
			name: "invalid payments are ignored",
			payments: []models.Payment{
				{ID: "p1", MemberID: "B", Amount: -10},
				{ID: "p2", MemberID: "", Amount: 10},
				{ID: "p3", MemberID: "C", Amount: math.Inf(1)},
			},
			wantIDs:   []string{"B", "C"},
			wantAmts:  []float64{100, 100},
			wantTotal: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Receivables(records, tt.payments)
			if len(got.Members) != len(tt.wantIDs) {
				t.Fatalf("got %d members, want %d: %+v", len(got.Members), len(tt.wantIDs), got.Members)
			}
			for i, m := range got.Members {
				if m.MemberID != tt.wantIDs[i] {
					t.Errorf("member %d = %s, want %s", i, m.MemberID, tt.wantIDs[i])
				}
				if math.Abs(m.Amount-tt.wantAmts[i]) > 0.001 {
					t.Errorf("%s pending = %v, want %v", m.MemberID, m.Amount, tt.wantAmts[i])
				}
			}
			if math.Abs(got.Total-tt.wantTotal) > 0.001 {
				t.Errorf("total = %v, want %v", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestReceivables_ReportsGrossAndReceived(t *testing.T) {
	records := []models.LunchRecord{
		lunch(300, "A", []string{"A", "B", "C"}, nil),
		lunch(90, "A", []string{"B", "C"}, map[string]float64{"B": 50, "C": 40}),
	}
	payments := []models.Payment{{ID: "p1", MemberID: "B", Amount: 60}}

	got := Receivables(records, payments)
	for _, m := range got.Members {
		if m.MemberID != "B" {
			continue
		}
		if m.GrossAmount != 150 || m.ReceivedAmount != 60 || m.Amount != 90 {
			t.Errorf("B = %+v, want gross 150 received 60 pending 90", m)
		}
		return
	}
	t.Fatal("B missing from receivables")
}

func TestReceivables_PayerNeverOwes(t *testing.T) {
	records := []models.LunchRecord{lunch(80, "A", []string{"A"}, nil)}
	got := Receivables(records, nil)
	if len(got.Members) != 0 || got.Total != 0 {
		t.Errorf("expected nothing pending, got %+v", got)
	}
}

func TestReceivables_AccumulatesUnroundedShares(t *testing.T) {
	record := lunch(100, "A", []string{"A", "B", "C"}, nil)
	records := []models.LunchRecord{record, record, record}

	var rounded float64
	for _, r := range records {
		for _, e := range ShareEntries(r) {
			if e.MemberID == "B" {
				rounded += e.Amount
			}
		}
	}
	if math.Abs(rounded-99.99) > 0.0001 {
		t.Fatalf("rounded entries for B sum to %v, want 99.99", rounded)
	}

	got := Receivables(records, nil)
	for _, m := range got.Members {
		if m.MemberID != "B" {
			continue
		}
		if m.GrossAmount != 100 || m.Amount != 100 {
			t.Errorf("B = %+v, want gross and pending 100", m)
		}
		return
	}
	t.Fatal("B missing from receivables")
}
