package engine

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Tunjangan tanggungan per dependent (KHR), mengikuti aturan pajak gaji Kamboja.
var DefaultDependentAllowance = decimal.NewFromInt(150000)

var (
	// ErrNoActiveAssignment menandai precondition failure: tidak ada salary
	// structure assignment aktif yang mencakup tanggal akhir periode. Ini harus
	// dilaporkan ke pemanggil, bukan dihitung diam-diam dengan base nol.
	ErrNoActiveAssignment = errors.New("no active salary structure assignment covers the period end date")

	// ErrInvalidPeriod menandai rentang tanggal periode yang tidak valid.
	ErrInvalidPeriod = errors.New("period end date is before start date")
)

// ResolveAssignment memilih satu assignment aktif untuk tanggal akhir periode:
// from_date <= end, to_date kosong atau >= end, aktif, dan submitted.
// Bila lebih dari satu cocok, dipilih yang from_date paling baru.
func ResolveAssignment(assignments []Assignment, periodEnd time.Time) (Assignment, error) {
	var (
		found  bool
		active Assignment
	)
	for _, a := range assignments {
		if !a.IsActive || !a.Submitted {
			continue
		}
		if a.FromDate.After(periodEnd) {
			continue
		}
		if a.ToDate != nil && a.ToDate.Before(periodEnd) {
			continue
		}
		if !found || a.FromDate.After(active.FromDate) {
			active = a
			found = true
		}
	}
	if !found {
		return Assignment{}, ErrNoActiveAssignment
	}
	return active, nil
}

// Calculate menjalankan pipeline dua pass untuk satu (employee, period).
// Fungsi murni: seluruh state hasil ada di Result, pemanggilan ulang dengan
// Input yang sama menghasilkan Result yang identik (full replace, bukan diff).
func Calculate(in Input) (Result, error) {
	if in.Period.EndDate.Before(in.Period.StartDate) {
		return Result{}, ErrInvalidPeriod
	}

	assignment, err := ResolveAssignment(in.Assignments, in.Period.EndDate)
	if err != nil {
		return Result{}, err
	}

	totalWorkingDays := WorkingDays(in.Period.StartDate, in.Period.EndDate)
	base, multiplier := Prorate(in.Period.Type, assignment.BaseSalary, totalWorkingDays)

	paymentDays := in.PaymentDays
	if paymentDays <= 0 || paymentDays > totalWorkingDays {
		paymentDays = totalWorkingDays
	}
	lwpDays := totalWorkingDays - paymentDays

	res := Result{
		EmployeeID:       in.EmployeeID,
		StructureID:      assignment.Plan.StructureID,
		BaseSalary:       base,
		MonthlyBase:      assignment.BaseSalary,
		PeriodMultiplier: multiplier,
		TotalWorkingDays: totalWorkingDays,
		PaymentDays:      paymentDays,
		LeaveWithoutPay:  lwpDays,
	}

	ctx := NewContext().
		With("base", base).
		With("basic", base).
		With("monthly_base", assignment.BaseSalary).
		With("period_multiplier", multiplier).
		WithInt("working_days", totalWorkingDays).
		WithInt("payment_days", paymentDays).
		WithInt("lwp_days", lwpDays).
		With("hour_rate", assignment.Plan.HourRate).
		With("total_working_hours", in.TotalWorkingHours)

	// Pass 1: earnings. Tiap komponen yang tercatat ikut memperluas context
	// sehingga formula berikutnya bisa merujuknya lewat code huruf kecil.
	for _, pl := range assignment.Plan.earnings {
		amount, applies := evalPlanLine(pl, ctx, paymentDays, totalWorkingDays)
		if !applies {
			continue
		}
		if recordDetail(amount, pl.line.Component) {
			res.Earnings = append(res.Earnings, detailFor(pl.line.Component, amount))
		}
		ctx = ctx.With(contextKeyFor(pl.line.Component.Code), amount)
	}

	// Gross pay baru diketahui setelah seluruh earnings selesai; deductions
	// bergantung pada nilai ini.
	gross := sumNonStatistical(res.Earnings)
	ctx = ctx.With("gross", gross).With("gross_pay", gross)

	// Pass 2: deductions. Komponen pajak dan NSSF memakai kalkulator khusus,
	// diresolusi lewat role yang sudah ditandai saat plan dibangun.
	for _, pl := range assignment.Plan.deductions {
		if !conditionHolds(pl, ctx) {
			continue
		}

		var amount decimal.Decimal
		switch pl.role {
		case RoleProgressiveTax:
			taxable := taxableIncome(res, in)
			amount = ProgressiveTax(taxable, in.TaxSlabs, in.Period.EndDate)
			res.SalaryTax = amount
		case RoleSocialSecurityEmployee:
			employee, employer := NSSFContributions(gross, in.NSSFConfigs, in.Period.EndDate)
			amount = employee
			res.EmployeeNSSF = employee
			res.EmployerNSSF = employer
		default:
			amount = evalAmount(pl, ctx, paymentDays, totalWorkingDays)
		}

		if recordDetail(amount, pl.line.Component) {
			res.Deductions = append(res.Deductions, detailFor(pl.line.Component, amount))
		}
		ctx = ctx.With(contextKeyFor(pl.line.Component.Code), amount)
	}

	mergeAdditional(&res, in)
	finalizeTotals(&res)
	return res, nil
}

func evalPlanLine(pl planLine, ctx Context, paymentDays, totalWorkingDays int) (decimal.Decimal, bool) {
	if !conditionHolds(pl, ctx) {
		return decimal.Zero, false
	}
	return evalAmount(pl, ctx, paymentDays, totalWorkingDays), true
}

func conditionHolds(pl planLine, ctx Context) bool {
	if pl.condBroken {
		return false
	}
	if pl.cond == nil {
		return true
	}
	ok, err := pl.cond.EvalBool(ctx)
	if err != nil {
		return false
	}
	return ok
}

// Prioritas nilai: formula override di structure -> formula komponen ->
// persentase -> jumlah tetap di structure. Formula yang error menghasilkan nol.
func evalAmount(pl planLine, ctx Context, paymentDays, totalWorkingDays int) decimal.Decimal {
	c := pl.line.Component
	var amount decimal.Decimal

	switch {
	case pl.overrideFormula != nil || pl.overrideBroken:
		amount = evalOrZero(pl.overrideFormula, ctx)
	case pl.componentFormula != nil || pl.componentBroken:
		amount = roundToNearest(evalOrZero(pl.componentFormula, ctx), c.RoundToNearest)
	case c.Calculation == CalcPercentage && !c.PercentageValue.IsZero():
		amount = roundToNearest(percentageAmount(c, ctx), c.RoundToNearest)
	default:
		amount = pl.line.Amount
	}

	if c.DependsOnPaymentDays && totalWorkingDays > 0 {
		amount = amount.
			Mul(decimal.NewFromInt(int64(paymentDays))).
			Div(decimal.NewFromInt(int64(totalWorkingDays)))
	}
	return amount
}

func evalOrZero(expr *Expr, ctx Context) decimal.Decimal {
	if expr == nil {
		return decimal.Zero
	}
	out, err := expr.EvalNumber(ctx)
	if err != nil {
		return decimal.Zero
	}
	return out
}

func percentageAmount(c Component, ctx Context) decimal.Decimal {
	reference, ok := decimal.Zero, false
	if c.PercentageOf != "" {
		reference, ok = ctx.Lookup(contextKeyFor(c.PercentageOf))
	}
	if !ok {
		reference, _ = ctx.Lookup("base")
	}
	return reference.Mul(c.PercentageValue).Div(hundred)
}

func roundToNearest(amount decimal.Decimal, nearest int64) decimal.Decimal {
	if nearest <= 0 {
		return amount
	}
	n := decimal.NewFromInt(nearest)
	return amount.Div(n).RoundBank(0).Mul(n)
}

// Baris dicatat kecuali nilainya nol dan komponennya statistik.
func recordDetail(amount decimal.Decimal, c Component) bool {
	return !amount.IsZero() || !c.IsStatistical
}

func detailFor(c Component, amount decimal.Decimal) Detail {
	return Detail{
		Code:          c.Code,
		Name:          c.Name,
		Type:          c.Type,
		Amount:        amount,
		Statistical:   c.IsStatistical,
		TaxApplicable: c.IsTaxApplicable,
	}
}

func sumNonStatistical(details []Detail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		if d.Statistical {
			continue
		}
		total = total.Add(d.Amount)
	}
	return total
}

// taxableIncome = earnings kena pajak - kontribusi NSSF karyawan -
// tunjangan tanggungan, tidak pernah negatif.
func taxableIncome(res Result, in Input) decimal.Decimal {
	taxable := decimal.Zero
	for _, d := range res.Earnings {
		if d.Statistical || !d.TaxApplicable {
			continue
		}
		taxable = taxable.Add(d.Amount)
	}

	for _, d := range res.Deductions {
		if d.Code == nssfComponentCode {
			taxable = taxable.Sub(d.Amount)
		}
	}

	allowance := in.DependentAllowance
	if allowance.IsZero() {
		allowance = DefaultDependentAllowance
	}
	taxable = taxable.Sub(allowance.Mul(decimal.NewFromInt(int64(in.Dependents))))

	if taxable.Sign() < 0 {
		return decimal.Zero
	}
	return taxable
}

// mergeAdditional menggabungkan pembayaran tambahan secara aditif: bila baris
// komponen sudah ada nilainya ditambah, tidak pernah ditimpa. Dua adjustment
// ke komponen yang sama dalam satu periode dijumlahkan.
func mergeAdditional(res *Result, in Input) {
	for _, extra := range in.Additional {
		if extra.Status != AdditionalActive {
			continue
		}
		if extra.PayrollDate.Before(in.Period.StartDate) || extra.PayrollDate.After(in.Period.EndDate) {
			continue
		}

		target := &res.Earnings
		if extra.Component.Type == Deduction {
			target = &res.Deductions
		}

		merged := false
		for i := range *target {
			if (*target)[i].Code == extra.Component.Code {
				(*target)[i].Amount = (*target)[i].Amount.Add(extra.Amount)
				merged = true
				break
			}
		}
		if !merged {
			*target = append(*target, detailFor(extra.Component, extra.Amount))
		}
	}
}

func finalizeTotals(res *Result) {
	res.GrossPay = sumNonStatistical(res.Earnings)
	res.TotalDeduction = sumNonStatistical(res.Deductions)
	res.NetPay = res.GrossPay.Sub(res.TotalDeduction)
	// round() sumber memakai banker's rounding; dipertahankan dan dikunci test
	res.RoundedTotal = res.NetPay.RoundBank(0)
	res.Status = StatusCalculated
}

// BatchItem adalah hasil per karyawan dalam satu batch: slip atau alasan gagal.
type BatchItem struct {
	EmployeeID string
	Result     Result
	Err        error
}

// CalculateBatch menghitung banyak karyawan secara paralel dengan pool
// terbatas. Perhitungan antar karyawan independen; kegagalan satu karyawan
// tidak menghentikan sisanya (pola partial success untuk bulk generation).
func CalculateBatch(ctx context.Context, inputs []Input, workers int) []BatchItem {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	items := make([]BatchItem, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range inputs {
		g.Go(func() error {
			items[i].EmployeeID = inputs[i].EmployeeID
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = Calculate(inputs[i])
			return nil
		})
	}
	_ = g.Wait()
	return items
}
