package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ComponentType string

const (
	Earning   ComponentType = "EARNING"
	Deduction ComponentType = "DEDUCTION"
)

type CalculationType string

const (
	CalcFixed      CalculationType = "FIXED"
	CalcPercentage CalculationType = "PERCENTAGE"
	CalcFormula    CalculationType = "FORMULA"
)

// Role menggantikan dispatch berbasis string code di loop perhitungan.
// Diresolusi sekali saat plan dibangun, bukan per iterasi.
type Role int

const (
	RoleGeneric Role = iota
	RoleProgressiveTax
	RoleSocialSecurityEmployee
)

const (
	taxComponentCode  = "TAX"
	nssfComponentCode = "NSSF_EMPLOYEE"
)

type SlipStatus string

const (
	StatusDraft      SlipStatus = "DRAFT"
	StatusCalculated SlipStatus = "CALCULATED"
	StatusApproved   SlipStatus = "APPROVED"
	StatusPaid       SlipStatus = "PAID"
	StatusCancelled  SlipStatus = "CANCELLED"
)

// Component adalah definisi satu baris slip (earning atau deduction).
type Component struct {
	Code        string
	Name        string
	Type        ComponentType
	Calculation CalculationType
	Formula     string
	Condition   string

	IsPayable                    bool
	DependsOnPaymentDays         bool
	IsTaxApplicable              bool
	IsStatistical                bool
	VariableBasedOnTaxableSalary bool

	RoundToNearest  int64
	PercentageOf    string
	PercentageValue decimal.Decimal
	DisplayOrder    int
}

// StructureLine mengikat komponen ke sebuah structure; Amount dipakai untuk
// mode FIXED, Formula/Condition menimpa definisi komponen bila diisi.
type StructureLine struct {
	Component Component
	Amount    decimal.Decimal
	Formula   string
	Condition string
}

// planLine adalah StructureLine yang formula/kondisinya sudah diparse dan
// role-nya sudah diresolusi. Formula yang gagal parse ditandai broken dan
// berdegradasi ke nol saat evaluasi (fail-safe).
type planLine struct {
	line StructureLine
	role Role

	cond       *Expr
	condBroken bool

	overrideFormula *Expr
	overrideBroken  bool

	componentFormula *Expr
	componentBroken  bool
}

// Plan adalah salary structure yang siap dihitung: baris terurut, terpisah
// earnings/deductions, semua ekspresi sudah melewati parser.
type Plan struct {
	StructureID   string
	StructureName string
	HourRate      decimal.Decimal

	earnings   []planLine
	deductions []planLine
}

// BuildPlan menyusun Plan dari baris structure. Urutan mengikuti DisplayOrder
// komponen, stabil terhadap urutan input.
func BuildPlan(structureID, structureName string, hourRate decimal.Decimal, lines []StructureLine) Plan {
	sorted := make([]StructureLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Component.DisplayOrder < sorted[j].Component.DisplayOrder
	})

	plan := Plan{StructureID: structureID, StructureName: structureName, HourRate: hourRate}
	for _, line := range sorted {
		pl := buildPlanLine(line)
		if line.Component.Type == Deduction {
			plan.deductions = append(plan.deductions, pl)
		} else {
			plan.earnings = append(plan.earnings, pl)
		}
	}
	return plan
}

func buildPlanLine(line StructureLine) planLine {
	pl := planLine{line: line, role: resolveRole(line.Component)}

	if src := condSource(line); src != "" {
		expr, err := Parse(src)
		if err != nil {
			pl.condBroken = true
		} else {
			pl.cond = expr
		}
	}
	if line.Formula != "" {
		expr, err := Parse(line.Formula)
		if err != nil {
			pl.overrideBroken = true
		} else {
			pl.overrideFormula = expr
		}
	}
	if line.Component.Formula != "" {
		expr, err := Parse(line.Component.Formula)
		if err != nil {
			pl.componentBroken = true
		} else {
			pl.componentFormula = expr
		}
	}
	return pl
}

// Kondisi di level structure menimpa kondisi komponen.
func condSource(line StructureLine) string {
	if line.Condition != "" {
		return line.Condition
	}
	return line.Component.Condition
}

func resolveRole(c Component) Role {
	if c.Type != Deduction {
		return RoleGeneric
	}
	if c.VariableBasedOnTaxableSalary || c.Code == taxComponentCode {
		return RoleProgressiveTax
	}
	if c.Code == nssfComponentCode {
		return RoleSocialSecurityEmployee
	}
	return RoleGeneric
}

// Assignment mengikat karyawan ke satu structure dengan base salary untuk
// rentang tanggal tertentu.
type Assignment struct {
	Plan       Plan
	BaseSalary decimal.Decimal
	FromDate   time.Time
	ToDate     *time.Time
	IsActive   bool
	Submitted  bool
}

// Period adalah rentang tanggal satu run payroll.
type Period struct {
	Type      PeriodType
	StartDate time.Time
	EndDate   time.Time
}

type AdditionalStatus string

const (
	AdditionalDraft     AdditionalStatus = "DRAFT"
	AdditionalActive    AdditionalStatus = "ACTIVE"
	AdditionalCompleted AdditionalStatus = "COMPLETED"
	AdditionalCancelled AdditionalStatus = "CANCELLED"
)

// AdditionalPay adalah pembayaran satu kali untuk komponen tertentu.
type AdditionalPay struct {
	Component   Component
	Amount      decimal.Decimal
	PayrollDate time.Time
	Status      AdditionalStatus
}

// Input adalah seluruh masukan untuk satu perhitungan (employee, period).
// Semua data sudah dimuat oleh pemanggil; engine tidak melakukan I/O.
type Input struct {
	EmployeeID  string
	Dependents  int
	Period      Period
	Assignments []Assignment

	TaxSlabs    []TaxSlab
	NSSFConfigs []NSSFConfig
	Additional  []AdditionalPay

	// PaymentDays <= 0 berarti kehadiran penuh (default total working days).
	PaymentDays       int
	TotalWorkingHours decimal.Decimal

	// Nol berarti memakai DefaultDependentAllowance.
	DependentAllowance decimal.Decimal
}

// Detail adalah satu baris slip hasil perhitungan.
type Detail struct {
	Code          string
	Name          string
	Type          ComponentType
	Amount        decimal.Decimal
	Statistical   bool
	TaxApplicable bool
}

// Result adalah slip final: detail terurut per pass plus total yang sudah
// difinalisasi. Dua kali Calculate dengan Input sama menghasilkan Result
// yang identik.
type Result struct {
	EmployeeID  string
	StructureID string

	BaseSalary       decimal.Decimal
	MonthlyBase      decimal.Decimal
	PeriodMultiplier decimal.Decimal

	TotalWorkingDays int
	PaymentDays      int
	LeaveWithoutPay  int

	Earnings   []Detail
	Deductions []Detail

	GrossPay       decimal.Decimal
	TotalDeduction decimal.Decimal
	NetPay         decimal.Decimal
	RoundedTotal   decimal.Decimal

	SalaryTax    decimal.Decimal
	EmployeeNSSF decimal.Decimal
	EmployerNSSF decimal.Decimal

	Status SlipStatus
}

func contextKeyFor(code string) string {
	return strings.ToLower(code)
}
