package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/mmynk/khaja/internal/models"
)

func TestDashboardStats(t *testing.T) {
	today := time.Date(2024, time.May, 10, 13, 0, 0, 0, time.UTC)
	records := []models.LunchRecord{
		{Date: "2024-05-10", Total: 120.5},
		{Date: "2024-05-10", Total: 80},
		{Date: "2024-05-02", Total: 45.25},
		{Date: "2024-04-30", Total: 300},
		{Date: "2023-05-10", Total: 10},
		{Date: "not-a-date", Total: 5},
	}

	got := DashboardStats(records, today)

	if got.TodayCount != 2 {
		t.Errorf("TodayCount = %d, want 2", got.TodayCount)
	}
	if math.Abs(got.TodayTotal-200.5) > 0.001 {
		t.Errorf("TodayTotal = %v, want 200.5", got.TodayTotal)
	}
	if math.Abs(got.MonthTotal-245.75) > 0.001 {
		t.Errorf("MonthTotal = %v, want 245.75", got.MonthTotal)
	}
	if math.Abs(got.GrandTotal-560.75) > 0.001 {
		t.Errorf("GrandTotal = %v, want 560.75", got.GrandTotal)
	}
}

func TestDashboardStats_Empty(t *testing.T) {
	got := DashboardStats(nil, time.Now())
	if got != (Dashboard{}) {
		t.Errorf("expected zero dashboard, got %+v", got)
	}
}
