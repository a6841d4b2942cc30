package statutory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxSlab adalah satu lapisan tarif pajak gaji progresif dengan jendela
// tanggal berlaku. MaxAmount NULL berarti slab teratas tanpa batas.
type TaxSlab struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;index"`

	MinAmount decimal.Decimal  `gorm:"type:numeric(18,2)"`
	MaxAmount *decimal.Decimal `gorm:"type:numeric(18,2)"`
	TaxRate   decimal.Decimal  `gorm:"type:numeric(8,4)"`
	FixedTax  decimal.Decimal  `gorm:"type:numeric(18,2)"`

	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TaxSlab) TableName() string {
	return "tax_slabs"
}

// NSSFConfiguration adalah tarif iuran jaminan sosial per jenis kontribusi.
type NSSFConfiguration struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;index"`

	ContributionType string          // HEALTH_CARE | OCCUPATIONAL_RISK | PENSION
	EmployeeRate     decimal.Decimal `gorm:"type:numeric(8,4)"`
	EmployerRate     decimal.Decimal `gorm:"type:numeric(8,4)"`
	MaxSalaryCap     decimal.Decimal `gorm:"type:numeric(18,2)"`

	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NSSFConfiguration) TableName() string {
	return "nssf_configurations"
}
