package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/khaja/internal/models"
)

// Dashboard aggregates spending for the overview screen.
type Dashboard struct {
	TodayTotal float64
	TodayCount int
	MonthTotal float64
	GrandTotal float64
}

// DashboardStats sums record totals for the given day, its calendar month
// and all time. Record dates are interpreted in today's location; records
// with unparsable dates only count toward the grand total.
func DashboardStats(records []models.LunchRecord, today time.Time) Dashboard {
	day := today.Format(time.DateOnly)
	var todayTotal, monthTotal, grandTotal decimal.Decimal
	var todayCount int

	for _, record := range records {
		total := dec(record.Total)
		grandTotal = grandTotal.Add(total)

		if record.Date == day {
			todayTotal = todayTotal.Add(total)
			todayCount++
		}

		date, err := time.ParseInLocation(time.DateOnly, record.Date, today.Location())
		if err != nil {
			continue
		}
		if date.Year() == today.Year() && date.Month() == today.Month() {
			monthTotal = monthTotal.Add(total)
		}
	}

	return Dashboard{
		TodayTotal: cents(todayTotal),
		TodayCount: todayCount,
		MonthTotal: cents(monthTotal),
		GrandTotal: cents(grandTotal),
	}
}
