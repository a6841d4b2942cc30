package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

type PeriodType string

const (
	PeriodMonthly     PeriodType = "MONTHLY"
	PeriodSemiMonthly PeriodType = "SEMI_MONTHLY"
	PeriodWeekly      PeriodType = "WEEKLY"
	PeriodBiWeekly    PeriodType = "BI_WEEKLY"
)

// Referensi panjang bulan standar untuk prorata weekly/bi-weekly.
const referenceMonthDays = 22

var (
	half = decimal.NewFromFloat(0.5)
	one  = decimal.NewFromInt(1)
)

// WorkingDays menghitung hari kerja (Senin-Jumat) di rentang [start, end].
func WorkingDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// Prorate mengubah gaji pokok bulanan menjadi (gaji efektif, period multiplier)
// sesuai tipe periode:
//   - MONTHLY: gaji penuh, multiplier 1.0
//   - SEMI_MONTHLY: selalu tepat setengah, tanpa hitung hari
//   - WEEKLY/BI_WEEKLY: gaji penuh, multiplier working_days/22; multiplier hanya
//     tersedia di context formula, tidak otomatis diterapkan ke setiap komponen
func Prorate(periodType PeriodType, monthlyBase decimal.Decimal, workingDays int) (decimal.Decimal, decimal.Decimal) {
	switch periodType {
	case PeriodSemiMonthly:
		return monthlyBase.Mul(half), half
	case PeriodWeekly, PeriodBiWeekly:
		if workingDays <= 0 {
			return monthlyBase, one
		}
		multiplier := decimal.NewFromInt(int64(workingDays)).Div(decimal.NewFromInt(referenceMonthDays))
		return monthlyBase, multiplier
	default:
		return monthlyBase, one
	}
}
