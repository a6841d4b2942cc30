package structure

import (
	"context"
	"database/sql"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=structure_repo.go -destination=mock/structure_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, structure *SalaryStructure) error
	FindAllByCompany(ctx context.Context, companyID string) ([]SalaryStructure, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalaryStructure, error)
	Update(ctx context.Context, structure *SalaryStructure) error
	ReplaceDetails(ctx context.Context, structureID string, details []SalaryDetail) error
	SetDocStatus(ctx context.Context, companyID, id string, docStatus int) error

	CreateAssignment(ctx context.Context, assignment *SalaryStructureAssignment) error
	FindAssignmentsByEmployee(ctx context.Context, companyID, employeeID string) ([]SalaryStructureAssignment, error)
	FindActiveAssignmentEmployees(ctx context.Context, companyID string) ([]string, error)
	DeactivateAssignment(ctx context.Context, companyID, id string) error
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

func (r *repository) Create(ctx context.Context, structure *SalaryStructure) error {
	return r.db.WithContext(ctx).Create(structure).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]SalaryStructure, error) {
	var structures []SalaryStructure
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&structures).Error
	return structures, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalaryStructure, error) {
	var structure SalaryStructure
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Details.Component").
		Where("id = ?", id).
		First(&structure).Error
	if err != nil {
		return nil, err
	}
	return &structure, nil
}

func (r *repository) Update(ctx context.Context, structure *SalaryStructure) error {
	return r.db.WithContext(ctx).
		Omit("Details").
		Save(structure).Error
}

// ReplaceDetails menghapus semua baris lama lalu menulis ulang. Dipanggil di
// dalam transaksi service sehingga tidak pernah terlihat setengah jadi.
func (r *repository) ReplaceDetails(ctx context.Context, structureID string, details []SalaryDetail) error {
	if err := r.db.WithContext(ctx).
		Where("structure_id = ?", structureID).
		Delete(&SalaryDetail{}).Error; err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&details).Error
}

func (r *repository) SetDocStatus(ctx context.Context, companyID, id string, docStatus int) error {
	return r.db.WithContext(ctx).
		Model(&SalaryStructure{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("doc_status", docStatus).Error
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *SalaryStructureAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *repository) FindAssignmentsByEmployee(ctx context.Context, companyID, employeeID string) ([]SalaryStructureAssignment, error) {
	var assignments []SalaryStructureAssignment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("from_date DESC").
		Find(&assignments).Error
	return assignments, err
}

// FindActiveAssignmentEmployees mengembalikan daftar employee_id unik yang
// punya assignment aktif; dipakai bulk generation untuk tahu siapa saja yang
// harus dibuatkan slip.
func (r *repository) FindActiveAssignmentEmployees(ctx context.Context, companyID string) ([]string, error) {
	var employeeIDs []string
	err := r.db.WithContext(ctx).
		Model(&SalaryStructureAssignment{}).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ? AND doc_status = ?", true, DocStatusSubmitted).
		Distinct("employee_id").
		Pluck("employee_id", &employeeIDs).Error
	return employeeIDs, err
}

func (r *repository) DeactivateAssignment(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Model(&SalaryStructureAssignment{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("is_active", false).Error
}
