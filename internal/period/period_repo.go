package period

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=period_repo.go -destination=mock/period_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, period *PayrollPeriod) error
	FindAllByCompany(ctx context.Context, companyID string) ([]PayrollPeriod, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollPeriod, error)
	UpdateSummary(ctx context.Context, period *PayrollPeriod) error
	SetStatus(ctx context.Context, companyID, id, status string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, period *PayrollPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]PayrollPeriod, error) {
	var periods []PayrollPeriod
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date DESC").
		Find(&periods).Error
	return periods, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollPeriod, error) {
	var period PayrollPeriod
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *repository) UpdateSummary(ctx context.Context, period *PayrollPeriod) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&PayrollPeriod{}).
		Where("id = ?", period.ID).
		Updates(map[string]any{
			"total_employees":      period.TotalEmployees,
			"processed_employees":  period.ProcessedEmployees,
			"total_gross_pay":      period.TotalGrossPay,
			"total_deductions":     period.TotalDeductions,
			"total_net_pay":        period.TotalNetPay,
			"summary_refreshed_at": now,
		}).Error
}

func (r *repository) SetStatus(ctx context.Context, companyID, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("status", status).Error
}
