package engine

import "github.com/shopspring/decimal"

// SlipTotals adalah potongan data slip yang dibutuhkan agregasi periode.
type SlipTotals struct {
	Status         SlipStatus
	GrossPay       decimal.Decimal
	TotalDeduction decimal.Decimal
	NetPay         decimal.Decimal
}

// PeriodSummary adalah metrik turunan satu periode. Nilainya tidak pernah
// otoritatif; selalu bisa dihitung ulang dari slip.
type PeriodSummary struct {
	TotalEmployees     int
	ProcessedEmployees int
	TotalGrossPay      decimal.Decimal
	TotalDeductions    decimal.Decimal
	TotalNetPay        decimal.Decimal
}

var processedStatuses = map[SlipStatus]struct{}{
	StatusCalculated: {},
	StatusApproved:   {},
	StatusPaid:       {},
}

// Summarize menggulung total slip menjadi ringkasan periode. Agregasi murni
// tanpa efek samping; aman dipanggil kapan saja dan berulang kali.
func Summarize(slips []SlipTotals) PeriodSummary {
	summary := PeriodSummary{
		TotalGrossPay:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNetPay:     decimal.Zero,
	}

	for _, slip := range slips {
		summary.TotalEmployees++
		if _, ok := processedStatuses[slip.Status]; ok {
			summary.ProcessedEmployees++
		}
		summary.TotalGrossPay = summary.TotalGrossPay.Add(slip.GrossPay)
		summary.TotalDeductions = summary.TotalDeductions.Add(slip.TotalDeduction)
		summary.TotalNetPay = summary.TotalNetPay.Add(slip.NetPay)
	}
	return summary
}
