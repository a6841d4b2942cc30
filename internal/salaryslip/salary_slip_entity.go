package salaryslip

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalarySlip adalah hasil perhitungan satu (employee, period). Recalculate
// mengganti slip beserta seluruh detailnya (full replace), tidak pernah patch.
type SalarySlip struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_slip_company_status"`
	PeriodID   uuid.UUID `gorm:"type:uuid;not null;index:idx_slip_period_employee,unique"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_slip_period_employee,unique"`

	StructureID uuid.UUID `gorm:"type:uuid;not null"`

	BaseSalary       decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	MonthlyBase      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PeriodMultiplier decimal.Decimal `gorm:"type:numeric(10,6);not null"`

	TotalWorkingDays int `gorm:"not null;default:0"`
	PaymentDays      int `gorm:"not null;default:0"`
	LeaveWithoutPay  int `gorm:"not null;default:0"`

	GrossPay       decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	TotalDeduction decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	NetPay         decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	RoundedTotal   decimal.Decimal `gorm:"type:numeric(18,2);not null"`

	SalaryTax    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	EmployeeNSSF decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	EmployerNSSF decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`

	Status string `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_slip_company_status"`

	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time `gorm:"index"`
	PaidAt     *time.Time `gorm:"index"`

	PayslipURL         *string
	PayslipGeneratedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Details []SalarySlipDetail `gorm:"foreignKey:SlipID"`

	Employee *DirectoryEmployee `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (SalarySlip) TableName() string {
	return "salary_slips"
}

// SalarySlipDetail adalah satu baris slip. Baris tidak pernah diedit satuan;
// recalculate menghapus dan menulis ulang seluruh set.
type SalarySlipDetail struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SlipID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	Code          string          `gorm:"type:varchar(50);not null"`
	Name          string          `gorm:"type:varchar(120);not null"`
	Type          string          `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Statistical   bool            `gorm:"not null;default:false"`
	TaxApplicable bool            `gorm:"not null;default:false"`
	DisplayOrder  int             `gorm:"not null;default:0"`

	CreatedAt time.Time
}

func (SalarySlipDetail) TableName() string {
	return "salary_slip_details"
}

// DirectoryEmployee adalah proyeksi read-only tabel employees milik layanan
// direktori karyawan; payroll hanya membaca, tidak pernah menulis.
type DirectoryEmployee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"column:company_id"`
	FullName   string    `gorm:"column:full_name"`
	Dependents int       `gorm:"column:dependents"`
}

func (DirectoryEmployee) TableName() string {
	return "employees"
}
