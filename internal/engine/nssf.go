package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// NSSFConfig adalah satu jenis kontribusi jaminan sosial dengan tarif
// karyawan/pemberi kerja dan plafon gaji masing-masing.
type NSSFConfig struct {
	ContributionType string
	EmployeeRate     decimal.Decimal
	EmployerRate     decimal.Decimal
	MaxSalaryCap     decimal.Decimal
	EffectiveFrom    time.Time
	EffectiveTo      *time.Time
	IsActive         bool
}

// NSSFContributions menjumlahkan kontribusi semua config aktif terhadap gross
// yang sudah dibatasi plafon per config. Bagian employer hanya untuk pelaporan,
// tidak pernah mengurangi net pay.
func NSSFContributions(grossPay decimal.Decimal, configs []NSSFConfig, asOf time.Time) (employee, employer decimal.Decimal) {
	employee = decimal.Zero
	employer = decimal.Zero

	for _, cfg := range configs {
		if !cfg.IsActive || cfg.EffectiveFrom.After(asOf) {
			continue
		}
		capped := decimal.Min(grossPay, cfg.MaxSalaryCap)
		employee = employee.Add(capped.Mul(cfg.EmployeeRate).Div(hundred))
		employer = employer.Add(capped.Mul(cfg.EmployerRate).Div(hundred))
	}
	return employee, employer
}
