package period

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusOpen       = "OPEN"
	StatusProcessing = "PROCESSING"
	StatusClosed     = "CLOSED"
)

// PayrollPeriod adalah satu jendela run payroll. Kolom summary adalah turunan
// dari slip dan selalu bisa dihitung ulang lewat RefreshSummary.
type PayrollPeriod struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;index:idx_period_company_dates,unique"`

	Name       string
	PeriodType string    // MONTHLY | SEMI_MONTHLY | WEEKLY | BI_WEEKLY
	StartDate  time.Time `gorm:"index:idx_period_company_dates,unique"`
	EndDate    time.Time `gorm:"index:idx_period_company_dates,unique"`

	Status string

	TotalEmployees     int
	ProcessedEmployees int
	TotalGrossPay      decimal.Decimal `gorm:"type:numeric(18,2)"`
	TotalDeductions    decimal.Decimal `gorm:"type:numeric(18,2)"`
	TotalNetPay        decimal.Decimal `gorm:"type:numeric(18,2)"`
	SummaryRefreshedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}
