package additionalsalary

import (
	"time"

	"go-payroll/internal/component"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft     = "DRAFT"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// AdditionalSalary adalah pembayaran satu kali (bonus, insentif, potongan ad
// hoc) untuk satu komponen di satu tanggal payroll. Hanya yang ACTIVE yang
// ikut dihitung.
type AdditionalSalary struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;index"`
	ComponentID uuid.UUID `gorm:"type:uuid"`

	Amount      decimal.Decimal `gorm:"type:numeric(18,2)"`
	PayrollDate time.Time
	Reason      string
	Status      string

	Component component.SalaryComponent `gorm:"foreignKey:ComponentID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AdditionalSalary) TableName() string {
	return "additional_salaries"
}
