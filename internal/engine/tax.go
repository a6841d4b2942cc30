package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TaxSlab adalah satu bracket pajak progresif. MaxAmount nil berarti bracket
// teratas tanpa batas.
type TaxSlab struct {
	MinAmount     decimal.Decimal
	MaxAmount     *decimal.Decimal
	TaxRate       decimal.Decimal
	FixedTax      decimal.Decimal
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool
}

var hundred = decimal.NewFromInt(100)

// ProgressiveTax menjalankan tarif progresif atas taxable income.
// Slab yang tidak aktif atau belum berlaku pada asOf diabaikan; daftar kosong
// berarti pajak nol, bukan error.
func ProgressiveTax(taxableIncome decimal.Decimal, slabs []TaxSlab, asOf time.Time) decimal.Decimal {
	if taxableIncome.Sign() <= 0 {
		return decimal.Zero
	}

	active := make([]TaxSlab, 0, len(slabs))
	for _, slab := range slabs {
		if !slab.IsActive || slab.EffectiveFrom.After(asOf) {
			continue
		}
		active = append(active, slab)
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].MinAmount.LessThan(active[j].MinAmount)
	})

	tax := decimal.Zero
	for _, slab := range active {
		if taxableIncome.LessThanOrEqual(slab.MinAmount) {
			break
		}

		upper := taxableIncome
		if slab.MaxAmount != nil {
			upper = decimal.Min(taxableIncome, *slab.MaxAmount)
		}
		taxableInSlab := upper.Sub(slab.MinAmount)
		tax = tax.Add(taxableInSlab.Mul(slab.TaxRate).Div(hundred)).Add(slab.FixedTax)

		if slab.MaxAmount != nil && taxableIncome.LessThanOrEqual(*slab.MaxAmount) {
			break
		}
	}
	return tax
}
