package statutory

import (
	"context"
	"database/sql"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=statutory_repo.go -destination=mock/statutory_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateTaxSlab(ctx context.Context, slab *TaxSlab) error
	FindTaxSlabsByCompany(ctx context.Context, companyID string) ([]TaxSlab, error)
	DeactivateTaxSlab(ctx context.Context, companyID, id string) error

	CreateNSSFConfig(ctx context.Context, cfg *NSSFConfiguration) error
	FindNSSFConfigsByCompany(ctx context.Context, companyID string) ([]NSSFConfiguration, error)
	DeactivateNSSFConfig(ctx context.Context, companyID, id string) error
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

func (r *repository) CreateTaxSlab(ctx context.Context, slab *TaxSlab) error {
	return r.db.WithContext(ctx).Create(slab).Error
}

func (r *repository) FindTaxSlabsByCompany(ctx context.Context, companyID string) ([]TaxSlab, error) {
	var slabs []TaxSlab
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("min_amount ASC, effective_from DESC").
		Find(&slabs).Error
	return slabs, err
}

// Slab tidak pernah dihapus fisik, hanya dinonaktifkan, supaya slip lama tetap
// bisa direkonsiliasi dengan tarif saat itu.
func (r *repository) DeactivateTaxSlab(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Model(&TaxSlab{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *repository) CreateNSSFConfig(ctx context.Context, cfg *NSSFConfiguration) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *repository) FindNSSFConfigsByCompany(ctx context.Context, companyID string) ([]NSSFConfiguration, error) {
	var configs []NSSFConfiguration
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("contribution_type ASC, effective_from DESC").
		Find(&configs).Error
	return configs, err
}

func (r *repository) DeactivateNSSFConfig(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Model(&NSSFConfiguration{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("is_active", false).Error
}
