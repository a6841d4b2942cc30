package structure

import (
	"time"

	"go-payroll/internal/component"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Docstatus mengikuti konvensi dokumen: draft bisa diubah, submitted beku.
const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
	DocStatusCancelled = 2
)

// SalaryStructure adalah template slip: kumpulan baris komponen terurut yang
// dibagikan ke banyak karyawan lewat assignment.
type SalaryStructure struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;index:idx_structure_company_name,unique"`
	Name      string    `gorm:"index:idx_structure_company_name,unique"`

	PeriodType string          // MONTHLY | SEMI_MONTHLY | WEEKLY | BI_WEEKLY
	HourRate   decimal.Decimal `gorm:"type:numeric(18,6)"`

	DocStatus int
	IsActive  bool

	Details []SalaryDetail `gorm:"foreignKey:StructureID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryStructure) TableName() string {
	return "salary_structures"
}

// SalaryDetail adalah satu baris structure. Amount dipakai mode FIXED;
// Formula/Condition di sini menimpa definisi komponen bila diisi.
type SalaryDetail struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StructureID uuid.UUID `gorm:"type:uuid;index"`
	ComponentID uuid.UUID `gorm:"type:uuid"`

	Amount    decimal.Decimal `gorm:"type:numeric(18,2)"`
	Formula   string
	Condition string

	Component component.SalaryComponent `gorm:"foreignKey:ComponentID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryDetail) TableName() string {
	return "salary_details"
}

// SalaryStructureAssignment mengikat satu karyawan ke structure dengan base
// salary untuk rentang tanggal. Satu karyawan tidak boleh punya dua assignment
// dengan from_date sama.
type SalaryStructureAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;index:idx_assignment_employee_from,unique"`
	StructureID uuid.UUID `gorm:"type:uuid"`

	BaseSalary decimal.Decimal `gorm:"type:numeric(18,2)"`
	FromDate   time.Time       `gorm:"index:idx_assignment_employee_from,unique"`
	ToDate     *time.Time

	DocStatus int
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryStructureAssignment) TableName() string {
	return "salary_structure_assignments"
}
