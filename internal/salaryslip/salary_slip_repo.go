package salaryslip

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/engine"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_slip_repo.go -destination=mock/salary_slip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, slip *SalarySlip) error
	Update(ctx context.Context, slip *SalarySlip) error
	ReplaceDetails(ctx context.Context, slip *SalarySlip) error
	FindAllByCompany(ctx context.Context, companyID string, filter GetSlipsFilterRequest) ([]SalarySlip, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalarySlip, error)
	FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID, periodID string) (*SalarySlip, error)
	Delete(ctx context.Context, companyID, id string) error

	// TotalsForPeriod memberi agregator periode potongan data slip yang
	// dibutuhkannya, tanpa memuat detail.
	TotalsForPeriod(ctx context.Context, companyID, periodID string) ([]engine.SlipTotals, error)

	// Pembacaan lintas domain (direktori karyawan dan kehadiran) bersifat
	// read-only terhadap tabel milik modul lain.
	FindDirectoryEmployee(ctx context.Context, companyID, employeeID string) (*DirectoryEmployee, error)
	PresentDays(ctx context.Context, companyID, employeeID string, start, end time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, slip *SalarySlip) error {
	return r.db.WithContext(ctx).Omit("Details", "Employee").Create(slip).Error
}

func (r *repository) Update(ctx context.Context, slip *SalarySlip) error {
	return r.db.WithContext(ctx).Omit("Details", "Employee").Save(slip).Error
}

// ReplaceDetails menghapus seluruh baris lama lalu menulis set baru.
// Recalculate selalu full replace, tidak pernah menyisakan baris basi.
func (r *repository) ReplaceDetails(ctx context.Context, slip *SalarySlip) error {
	if err := r.db.WithContext(ctx).
		Where("slip_id = ?", slip.ID).
		Delete(&SalarySlipDetail{}).Error; err != nil {
		return err
	}
	if len(slip.Details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slip.Details).Error
}

func (r *repository) FindAllByCompany(
	ctx context.Context,
	companyID string,
	filter GetSlipsFilterRequest,
) ([]SalarySlip, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC")

	if filter.PeriodID != "" {
		db = db.Where("period_id = ?", filter.PeriodID)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var slips []SalarySlip
	err := db.Find(&slips).Error
	return slips, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalarySlip, error) {
	var slip SalarySlip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&slip, "id = ?", id).Error
	return &slip, err
}

func (r *repository) FindByEmployeeAndPeriod(
	ctx context.Context,
	companyID, employeeID, periodID string,
) (*SalarySlip, error) {
	var slip SalarySlip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("period_id = ?", periodID).
		First(&slip).Error
	if err != nil {
		return nil, err
	}
	return &slip, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	if err := r.db.WithContext(ctx).
		Where("slip_id = ?", id).
		Delete(&SalarySlipDetail{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&SalarySlip{}, "id = ?", id).Error
}

func (r *repository) TotalsForPeriod(
	ctx context.Context,
	companyID, periodID string,
) ([]engine.SlipTotals, error) {
	var slips []SalarySlip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Select("status", "gross_pay", "total_deduction", "net_pay").
		Where("period_id = ?", periodID).
		Find(&slips).Error
	if err != nil {
		return nil, err
	}

	totals := make([]engine.SlipTotals, len(slips))
	for i, s := range slips {
		totals[i] = engine.SlipTotals{
			Status:         engine.SlipStatus(s.Status),
			GrossPay:       s.GrossPay,
			TotalDeduction: s.TotalDeduction,
			NetPay:         s.NetPay,
		}
	}
	return totals, nil
}

func (r *repository) FindDirectoryEmployee(
	ctx context.Context,
	companyID, employeeID string,
) (*DirectoryEmployee, error) {
	var emp DirectoryEmployee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		First(&emp, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) PresentDays(
	ctx context.Context,
	companyID, employeeID string,
	start, end time.Time,
) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("attendances").
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", start, end).
		Where("status IN ?", []string{"PRESENT", "LATE"}).
		Where("deleted_at IS NULL").
		Distinct("attendance_date").
		Count(&count).Error
	return int(count), err
}
