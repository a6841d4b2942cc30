package additionalsalary

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=additional_salary_repo.go -destination=mock/additional_salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, entry *AdditionalSalary) error
	FindAllByCompany(ctx context.Context, companyID string) ([]AdditionalSalary, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*AdditionalSalary, error)
	FindActiveInWindow(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]AdditionalSalary, error)
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

func (r *repository) Create(ctx context.Context, entry *AdditionalSalary) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]AdditionalSalary, error) {
	var entries []AdditionalSalary
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Component").
		Order("payroll_date DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*AdditionalSalary, error) {
	var entry AdditionalSalary
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Component").
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindActiveInWindow(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]AdditionalSalary, error) {
	var entries []AdditionalSalary
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Component").
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusActive).
		Where("payroll_date BETWEEN ? AND ?", start, end).
		Find(&entries).Error
	return entries, err
}

func (r *repository) SetStatus(ctx context.Context, companyID, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&AdditionalSalary{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("status", status).Error
}
