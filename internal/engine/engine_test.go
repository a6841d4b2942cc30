package engine_test

import (
	"context"
	"testing"

	"go-payroll/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func basicComponent() engine.Component {
	return engine.Component{
		Code:            "BASIC",
		Name:            "Basic Salary",
		Type:            engine.Earning,
		Calculation:     engine.CalcFormula,
		Formula:         "base",
		IsPayable:       true,
		IsTaxApplicable: true,
		DisplayOrder:    1,
	}
}

func taxComponent() engine.Component {
	return engine.Component{
		Code:                         "TAX",
		Name:                         "Salary Tax",
		Type:                         engine.Deduction,
		Calculation:                  engine.CalcFormula,
		VariableBasedOnTaxableSalary: true,
		DisplayOrder:                 20,
	}
}

func nssfComponent() engine.Component {
	return engine.Component{
		Code:         "NSSF_EMPLOYEE",
		Name:         "NSSF Employee Contribution",
		Type:         engine.Deduction,
		Calculation:  engine.CalcFormula,
		DisplayOrder: 10,
	}
}

func monthlyInput(lines []engine.StructureLine, base string) engine.Input {
	plan := engine.BuildPlan("struct-1", "Standard Structure", decimal.Zero, lines)
	return engine.Input{
		EmployeeID: "emp-1",
		Period: engine.Period{
			Type:      engine.PeriodMonthly,
			StartDate: date(2026, 2, 1),
			EndDate:   date(2026, 2, 28),
		},
		Assignments: []engine.Assignment{{
			Plan:       plan,
			BaseSalary: dec(base),
			FromDate:   date(2025, 1, 1),
			IsActive:   true,
			Submitted:  true,
		}},
	}
}

// Skenario lengkap: BASIC 2.000.000, NSSF 3,5% (plafon 3.000.000), pajak
// progresif dua slab. Net = 2.000.000 - 25.000 - 70.000 = 1.905.000.
func TestCalculate_MonthlyScenario(t *testing.T) {
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: nssfComponent()},
		{Component: taxComponent()},
	}
	in := monthlyInput(lines, "2000000")
	in.TaxSlabs = []engine.TaxSlab{
		{MinAmount: dec("0"), MaxAmount: decPtr("1500000"), TaxRate: dec("0"), EffectiveFrom: date(2024, 1, 1), IsActive: true},
		{MinAmount: dec("1500000"), MaxAmount: decPtr("2000000"), TaxRate: dec("5"), EffectiveFrom: date(2024, 1, 1), IsActive: true},
	}
	in.NSSFConfigs = nssfConfigs()

	res, err := engine.Calculate(in)
	assert.NoError(t, err)

	assert.Equal(t, engine.StatusCalculated, res.Status)
	assert.True(t, res.GrossPay.Equal(dec("2000000")), "gross = %s", res.GrossPay)
	assert.True(t, res.EmployeeNSSF.Equal(dec("70000")), "nssf = %s", res.EmployeeNSSF)

	// NSSF dihitung sebelum TAX (urutan structure), jadi taxable sudah
	// dikurangi kontribusi karyawan: (2.000.000 - 70.000 - 1.500.000) * 5%
	assert.True(t, res.SalaryTax.Equal(dec("21500")), "tax = %s", res.SalaryTax)
	assert.True(t, res.NetPay.Equal(dec("1908500")), "net = %s", res.NetPay)
}

// Tanpa komponen NSSF, taxable income 2.000.000 penuh -> pajak 25.000.
func TestCalculate_TaxWithoutNSSFLine(t *testing.T) {
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: taxComponent()},
	}
	in := monthlyInput(lines, "2000000")
	in.TaxSlabs = []engine.TaxSlab{
		{MinAmount: dec("0"), MaxAmount: decPtr("1500000"), TaxRate: dec("0"), EffectiveFrom: date(2024, 1, 1), IsActive: true},
		{MinAmount: dec("1500000"), MaxAmount: decPtr("2000000"), TaxRate: dec("5"), EffectiveFrom: date(2024, 1, 1), IsActive: true},
	}

	res, err := engine.Calculate(in)
	assert.NoError(t, err)
	assert.True(t, res.SalaryTax.Equal(dec("25000")), "tax = %s", res.SalaryTax)
	assert.True(t, res.NetPay.Equal(dec("1975000")))
}

func TestCalculate_NoActiveAssignment(t *testing.T) {
	in := monthlyInput([]engine.StructureLine{{Component: basicComponent()}}, "2000000")
	in.Assignments[0].IsActive = false

	_, err := engine.Calculate(in)
	assert.ErrorIs(t, err, engine.ErrNoActiveAssignment)
}

func TestCalculate_AssignmentResolution(t *testing.T) {
	plan := engine.BuildPlan("s", "S", decimal.Zero, []engine.StructureLine{{Component: basicComponent()}})
	end := date(2026, 2, 28)
	expired := date(2025, 12, 31)

	assignments := []engine.Assignment{
		{Plan: plan, BaseSalary: dec("1000"), FromDate: date(2024, 1, 1), IsActive: true, Submitted: true},
		{Plan: plan, BaseSalary: dec("2000"), FromDate: date(2025, 6, 1), IsActive: true, Submitted: true},
		// Draft dan non-aktif tidak pernah terpilih
		{Plan: plan, BaseSalary: dec("9000"), FromDate: date(2026, 1, 1), IsActive: true, Submitted: false},
		{Plan: plan, BaseSalary: dec("8000"), FromDate: date(2026, 1, 1), IsActive: false, Submitted: true},
		// Sudah berakhir sebelum akhir periode
		{Plan: plan, BaseSalary: dec("7000"), FromDate: date(2025, 1, 1), ToDate: &expired, IsActive: true, Submitted: true},
	}

	resolved, err := engine.ResolveAssignment(assignments, end)
	assert.NoError(t, err)
	assert.True(t, resolved.BaseSalary.Equal(dec("2000")), "latest submitted active assignment wins")
}

func TestCalculate_SemiMonthlyProration(t *testing.T) {
	lines := []engine.StructureLine{{Component: basicComponent()}}
	in := monthlyInput(lines, "3000000")
	in.Period = engine.Period{
		Type:      engine.PeriodSemiMonthly,
		StartDate: date(2026, 2, 1),
		EndDate:   date(2026, 2, 15),
	}

	res, err := engine.Calculate(in)
	assert.NoError(t, err)

	// base sudah diprorata jadi separuh; formula "base" langsung menghasilkan
	// 1.500.000 tanpa perlu menyentuh period_multiplier
	assert.True(t, res.BaseSalary.Equal(dec("1500000")))
	assert.True(t, res.PeriodMultiplier.Equal(dec("0.5")))
	assert.True(t, res.GrossPay.Equal(dec("1500000")), "gross = %s", res.GrossPay)
	assert.True(t, res.MonthlyBase.Equal(dec("3000000")))
}

func TestCalculate_WeeklyMultiplierInContext(t *testing.T) {
	prorated := engine.Component{
		Code:         "WEEKLY_PAY",
		Name:         "Weekly Pay",
		Type:         engine.Earning,
		Calculation:  engine.CalcFormula,
		Formula:      "monthly_base * period_multiplier",
		DisplayOrder: 1,
	}
	in := monthlyInput([]engine.StructureLine{{Component: prorated}}, "2200000")
	in.Period = engine.Period{
		Type:      engine.PeriodWeekly,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 8),
	}

	res, err := engine.Calculate(in)
	assert.NoError(t, err)

	assert.Equal(t, 5, res.TotalWorkingDays)
	// 2.200.000 * 5/22; presisi pembagian decimal menyisakan ekor kecil,
	// jadi dibandingkan setelah dibulatkan
	assert.True(t, res.GrossPay.Round(4).Equal(dec("500000")), "gross = %s", res.GrossPay)
	assert.True(t, res.RoundedTotal.Equal(dec("500000")))
}

// Deduction yang merujuk gross membuktikan gross tuntas sebelum pass kedua.
func TestCalculate_DeductionSeesFullGross(t *testing.T) {
	allowance := engine.Component{
		Code: "TRANSPORT", Name: "Transport Allowance",
		Type: engine.Earning, Calculation: engine.CalcFixed, DisplayOrder: 2,
	}
	levy := engine.Component{
		Code: "UNION_FEE", Name: "Union Fee",
		Type: engine.Deduction, Calculation: engine.CalcFormula,
		Formula: "gross * 0.02", DisplayOrder: 5,
	}
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: allowance, Amount: dec("500000")},
		{Component: levy},
	}

	res, err := engine.Calculate(monthlyInput(lines, "2000000"))
	assert.NoError(t, err)

	assert.True(t, res.GrossPay.Equal(dec("2500000")))
	assert.Len(t, res.Deductions, 1)
	// 2% dari total earnings, bukan dari base saja
	assert.True(t, res.Deductions[0].Amount.Equal(dec("50000")), "fee = %s", res.Deductions[0].Amount)
}

// Formula di pass yang sama bisa merujuk komponen sebelumnya lewat code kecil.
func TestCalculate_EarningsReferenceEarlierComponents(t *testing.T) {
	housing := engine.Component{
		Code: "HOUSING", Name: "Housing Allowance",
		Type: engine.Earning, Calculation: engine.CalcFormula,
		Formula: "basic * 0.1", DisplayOrder: 2,
	}
	seniority := engine.Component{
		Code: "SENIORITY", Name: "Seniority Allowance",
		Type: engine.Earning, Calculation: engine.CalcFormula,
		Formula: "housing * 0.5", DisplayOrder: 3,
	}
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: housing},
		{Component: seniority},
	}

	res, err := engine.Calculate(monthlyInput(lines, "2000000"))
	assert.NoError(t, err)
	assert.True(t, res.GrossPay.Equal(dec("2300000")), "gross = %s", res.GrossPay)
}

func TestCalculate_StructureFormulaOverridesComponent(t *testing.T) {
	lines := []engine.StructureLine{
		{Component: basicComponent(), Formula: "base * 0.9"},
	}
	res, err := engine.Calculate(monthlyInput(lines, "1000000"))
	assert.NoError(t, err)
	assert.True(t, res.GrossPay.Equal(dec("900000")), "override formula must win, got %s", res.GrossPay)
}

func TestCalculate_PercentageOfComponent(t *testing.T) {
	pension := engine.Component{
		Code: "PENSION", Name: "Pension",
		Type: engine.Deduction, Calculation: engine.CalcPercentage,
		PercentageOf: "BASIC", PercentageValue: dec("4"), DisplayOrder: 5,
	}
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: pension},
	}
	res, err := engine.Calculate(monthlyInput(lines, "2000000"))
	assert.NoError(t, err)
	assert.Len(t, res.Deductions, 1)
	assert.True(t, res.Deductions[0].Amount.Equal(dec("80000")))
}

func TestCalculate_BrokenFormulaDegradesToZero(t *testing.T) {
	broken := engine.Component{
		Code: "BONUS", Name: "Bonus",
		Type: engine.Earning, Calculation: engine.CalcFormula,
		Formula: "unknown_var * 2", DisplayOrder: 2,
	}
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: broken},
	}

	res, err := engine.Calculate(monthlyInput(lines, "2000000"))
	assert.NoError(t, err, "a broken formula must not abort the slip")

	// Komponen rusak menyumbang nol, sisanya tetap dihitung
	assert.True(t, res.GrossPay.Equal(dec("2000000")))
	found := false
	for _, d := range res.Earnings {
		if d.Code == "BONUS" {
			found = true
			assert.True(t, d.Amount.IsZero())
		}
	}
	assert.True(t, found, "non-statistical zero row is still recorded")
}

func TestCalculate_ConditionSkipsComponent(t *testing.T) {
	conditional := engine.Component{
		Code: "OT_ALLOWANCE", Name: "Overtime Allowance",
		Type: engine.Earning, Calculation: engine.CalcFixed,
		Condition: "payment_days < 10", DisplayOrder: 2,
	}
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: conditional, Amount: dec("100000")},
	}

	res, err := engine.Calculate(monthlyInput(lines, "2000000"))
	assert.NoError(t, err)

	for _, d := range res.Earnings {
		assert.NotEqual(t, "OT_ALLOWANCE", d.Code, "false condition leaves no row")
	}
	assert.True(t, res.GrossPay.Equal(dec("2000000")))
}

func TestCalculate_StatisticalComponentExcludedFromTotals(t *testing.T) {
	statistical := engine.Component{
		Code: "EMPLOYER_NSSF_INFO", Name: "Employer NSSF (info)",
		Type: engine.Earning, Calculation: engine.CalcFixed,
		IsStatistical: true, DisplayOrder: 9,
	}
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: statistical, Amount: dec("70000")},
	}

	res, err := engine.Calculate(monthlyInput(lines, "2000000"))
	assert.NoError(t, err)

	assert.Len(t, res.Earnings, 2, "statistical row is visible")
	assert.True(t, res.GrossPay.Equal(dec("2000000")), "but excluded from gross")
}

func TestCalculate_PaymentDaysScaling(t *testing.T) {
	attendance := engine.Component{
		Code: "ATTENDANCE_ALLOWANCE", Name: "Attendance Allowance",
		Type: engine.Earning, Calculation: engine.CalcFixed,
		DependsOnPaymentDays: true, DisplayOrder: 2,
	}
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: attendance, Amount: dec("200000")},
	}
	in := monthlyInput(lines, "2000000")
	in.PaymentDays = 15 // dari 20 hari kerja Feb 2026

	res, err := engine.Calculate(in)
	assert.NoError(t, err)

	assert.Equal(t, 20, res.TotalWorkingDays)
	assert.Equal(t, 15, res.PaymentDays)
	assert.Equal(t, 5, res.LeaveWithoutPay)

	var allowance decimal.Decimal
	for _, d := range res.Earnings {
		if d.Code == "ATTENDANCE_ALLOWANCE" {
			allowance = d.Amount
		}
	}
	assert.True(t, allowance.Equal(dec("150000")), "200000 * 15/20, got %s", allowance)
	// BASIC tidak ikut diskala karena tidak bergantung payment days
	assert.True(t, res.GrossPay.Equal(dec("2150000")))
}

func TestCalculate_AdditionalSalaryMergesAdditively(t *testing.T) {
	bonus := engine.Component{
		Code: "BONUS", Name: "Bonus",
		Type: engine.Earning, Calculation: engine.CalcFixed, DisplayOrder: 3,
	}
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: bonus, Amount: dec("100000")},
	}
	in := monthlyInput(lines, "2000000")
	in.Additional = []engine.AdditionalPay{
		{Component: bonus, Amount: dec("50000"), PayrollDate: date(2026, 2, 10), Status: engine.AdditionalActive},
		{Component: bonus, Amount: dec("25000"), PayrollDate: date(2026, 2, 20), Status: engine.AdditionalActive},
		// Di luar window dan draft tidak ikut
		{Component: bonus, Amount: dec("999999"), PayrollDate: date(2026, 3, 1), Status: engine.AdditionalActive},
		{Component: bonus, Amount: dec("999999"), PayrollDate: date(2026, 2, 10), Status: engine.AdditionalDraft},
	}

	res, err := engine.Calculate(in)
	assert.NoError(t, err)

	var bonusAmount decimal.Decimal
	bonusRows := 0
	for _, d := range res.Earnings {
		if d.Code == "BONUS" {
			bonusRows++
			bonusAmount = d.Amount
		}
	}
	assert.Equal(t, 1, bonusRows, "merge must stay within one row")
	assert.True(t, bonusAmount.Equal(dec("175000")), "100000+50000+25000, got %s", bonusAmount)
	assert.True(t, res.GrossPay.Equal(dec("2175000")))
}

func TestCalculate_AdditionalSalaryCreatesRowWhenMissing(t *testing.T) {
	oneOff := engine.Component{
		Code: "REFERRAL_BONUS", Name: "Referral Bonus",
		Type: engine.Earning, Calculation: engine.CalcFixed, DisplayOrder: 4,
	}
	in := monthlyInput([]engine.StructureLine{{Component: basicComponent()}}, "2000000")
	in.Additional = []engine.AdditionalPay{
		{Component: oneOff, Amount: dec("300000"), PayrollDate: date(2026, 2, 14), Status: engine.AdditionalActive},
	}

	res, err := engine.Calculate(in)
	assert.NoError(t, err)
	assert.Len(t, res.Earnings, 2)
	assert.True(t, res.GrossPay.Equal(dec("2300000")))
}

func TestCalculate_DependentAllowanceReducesTaxable(t *testing.T) {
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: taxComponent()},
	}
	in := monthlyInput(lines, "2000000")
	in.Dependents = 2
	in.TaxSlabs = []engine.TaxSlab{
		{MinAmount: dec("0"), MaxAmount: decPtr("1500000"), TaxRate: dec("0"), EffectiveFrom: date(2024, 1, 1), IsActive: true},
		{MinAmount: dec("1500000"), MaxAmount: nil, TaxRate: dec("5"), EffectiveFrom: date(2024, 1, 1), IsActive: true},
	}

	res, err := engine.Calculate(in)
	assert.NoError(t, err)

	// taxable = 2.000.000 - 2*150.000 = 1.700.000 -> pajak (200.000)*5%
	assert.True(t, res.SalaryTax.Equal(dec("10000")), "tax = %s", res.SalaryTax)
}

// Pemanggilan ganda dengan input sama harus identik baris demi baris.
func TestCalculate_Idempotent(t *testing.T) {
	lines := []engine.StructureLine{
		{Component: basicComponent()},
		{Component: nssfComponent()},
		{Component: taxComponent()},
	}
	in := monthlyInput(lines, "2000000")
	in.TaxSlabs = cambodiaSlabs()
	in.NSSFConfigs = nssfConfigs()
	in.Additional = []engine.AdditionalPay{
		{Component: basicComponent(), Amount: dec("10000"), PayrollDate: date(2026, 2, 5), Status: engine.AdditionalActive},
	}

	first, err := engine.Calculate(in)
	assert.NoError(t, err)
	second, err := engine.Calculate(in)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

// Mengunci kebijakan pembulatan: round() half-even di batas 0,5.
func TestCalculate_RoundedTotalBankersRounding(t *testing.T) {
	halfComponent := engine.Component{
		Code: "BASIC", Name: "Basic Salary",
		Type: engine.Earning, Calculation: engine.CalcFormula,
		Formula: "base + 0.5", DisplayOrder: 1,
	}

	t.Run("x.5 with even integer part rounds down", func(t *testing.T) {
		res, err := engine.Calculate(monthlyInput([]engine.StructureLine{{Component: halfComponent}}, "100"))
		assert.NoError(t, err)
		assert.True(t, res.NetPay.Equal(dec("100.5")))
		assert.True(t, res.RoundedTotal.Equal(dec("100")), "100.5 -> 100, got %s", res.RoundedTotal)
	})

	t.Run("x.5 with odd integer part rounds up", func(t *testing.T) {
		res, err := engine.Calculate(monthlyInput([]engine.StructureLine{{Component: halfComponent}}, "101"))
		assert.NoError(t, err)
		assert.True(t, res.RoundedTotal.Equal(dec("102")), "101.5 -> 102, got %s", res.RoundedTotal)
	})
}

func TestCalculate_InvalidPeriod(t *testing.T) {
	in := monthlyInput([]engine.StructureLine{{Component: basicComponent()}}, "2000000")
	in.Period.StartDate = date(2026, 3, 1)
	in.Period.EndDate = date(2026, 2, 1)

	_, err := engine.Calculate(in)
	assert.ErrorIs(t, err, engine.ErrInvalidPeriod)
}

func TestCalculateBatch_PartialSuccess(t *testing.T) {
	good := monthlyInput([]engine.StructureLine{{Component: basicComponent()}}, "2000000")
	bad := monthlyInput([]engine.StructureLine{{Component: basicComponent()}}, "2000000")
	bad.EmployeeID = "emp-2"
	bad.Assignments = nil

	items := engine.CalculateBatch(context.Background(), []engine.Input{good, bad}, 4)

	assert.Len(t, items, 2)
	assert.NoError(t, items[0].Err)
	assert.True(t, items[0].Result.GrossPay.Equal(dec("2000000")))
	assert.Equal(t, "emp-2", items[1].EmployeeID)
	assert.ErrorIs(t, items[1].Err, engine.ErrNoActiveAssignment,
		"one failing employee must not abort the batch")
}

func TestCalculateBatch_KeepsInputOrder(t *testing.T) {
	inputs := make([]engine.Input, 8)
	for i := range inputs {
		in := monthlyInput([]engine.StructureLine{{Component: basicComponent()}}, "1000000")
		in.EmployeeID = string(rune('a' + i))
		inputs[i] = in
	}

	items := engine.CalculateBatch(context.Background(), inputs, 3)
	for i, item := range items {
		assert.Equal(t, string(rune('a'+i)), item.EmployeeID)
		assert.NoError(t, item.Err)
	}
}
