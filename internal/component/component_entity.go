package component

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryComponent adalah definisi satu jenis earning/deduction milik company.
// Formula dan condition disimpan sebagai teks dan baru diparse saat structure
// plan dibangun.
type SalaryComponent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;index:idx_component_company_code,unique"`
	Code      string    `gorm:"index:idx_component_company_code,unique"`
	Name      string
	Type      string // EARNING | DEDUCTION
	Category  string // FIXED | PERCENTAGE | FORMULA

	Formula   string
	Condition string

	IsPayable                    bool
	DependsOnPaymentDays         bool
	IsTaxApplicable              bool
	IsStatisticalComponent       bool
	VariableBasedOnTaxableSalary bool

	RoundToNearest  int64
	PercentageOf    string
	PercentageValue decimal.Decimal `gorm:"type:numeric(18,6)"`
	DisplayOrder    int

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryComponent) TableName() string {
	return "salary_components"
}
