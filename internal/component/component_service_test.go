package component_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payroll/internal/component"
	componenterrors "go-payroll/internal/component/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeComponentRepository struct {
	withTxFn             func(tx *sql.Tx) component.Repository
	createFn             func(ctx context.Context, c *component.SalaryComponent) error
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]component.SalaryComponent, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*component.SalaryComponent, error)
	updateFn             func(ctx context.Context, c *component.SalaryComponent) error
	deleteFn             func(ctx context.Context, companyID, id string) error
}

func (f *fakeComponentRepository) WithTx(tx *sql.Tx) component.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeComponentRepository) Create(ctx context.Context, c *component.SalaryComponent) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeComponentRepository) FindAllByCompany(ctx context.Context, companyID string) ([]component.SalaryComponent, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeComponentRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*component.SalaryComponent, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeComponentRepository) Update(ctx context.Context, c *component.SalaryComponent) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return nil
}

func (f *fakeComponentRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service component.Service
	repo    *fakeComponentRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeComponentRepository{}
	svc := component.NewService(db, repo)

	return &serviceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestComponentService_Create(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success with formula", func(t *testing.T) {
		req := component.CreateComponentRequest{
			Code:            "HOUSING",
			Name:            "Housing Allowance",
			Type:            "EARNING",
			Category:        "FORMULA",
			Formula:         "basic * 0.1",
			IsPayable:       true,
			IsTaxApplicable: true,
			DisplayOrder:    2,
		}

		expectTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, c *component.SalaryComponent) error {
			assert.Equal(t, "HOUSING", c.Code)
			assert.Equal(t, companyID, c.CompanyID.String())
			assert.True(t, c.IsActive)
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, req)

		assert.NoError(t, err)
		assert.Equal(t, "HOUSING", resp.Code)
		assert.Equal(t, "basic * 0.1", resp.Formula)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("malformed formula rejected before any transaction", func(t *testing.T) {
		req := component.CreateComponentRequest{
			Code:     "BROKEN",
			Name:     "Broken",
			Type:     "EARNING",
			Category: "FORMULA",
			Formula:  "basic +* 2",
		}

		_, err := deps.service.Create(ctx, companyID, req)

		assert.ErrorIs(t, err, componenterrors.ErrInvalidFormula)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("formula calling unlisted function rejected", func(t *testing.T) {
		req := component.CreateComponentRequest{
			Code:     "EVIL",
			Name:     "Evil",
			Type:     "EARNING",
			Category: "FORMULA",
			Formula:  "open('/etc/passwd')",
		}

		_, err := deps.service.Create(ctx, companyID, req)

		assert.ErrorIs(t, err, componenterrors.ErrInvalidFormula)
	})

	t.Run("repo create error rolls back", func(t *testing.T) {
		req := component.CreateComponentRequest{
			Code:     "BASIC",
			Name:     "Basic Salary",
			Type:     "EARNING",
			Category: "FIXED",
		}

		expectTx(t, deps.sqlMock, false)

		deps.repo.createFn = func(ctx context.Context, c *component.SalaryComponent) error {
			return errors.New("db error")
		}

		_, err := deps.service.Create(ctx, companyID, req)

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestComponentService_GetAll(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]component.SalaryComponent, error) {
			assert.Equal(t, companyID, cid)
			return []component.SalaryComponent{
				{ID: uuid.New(), Code: "BASIC", Name: "Basic Salary", Type: "EARNING", Category: "FORMULA", DisplayOrder: 1},
				{ID: uuid.New(), Code: "TAX", Name: "Salary Tax", Type: "DEDUCTION", Category: "FORMULA", DisplayOrder: 20},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "BASIC", resp[0].Code)
	})

	t.Run("repo error", func(t *testing.T) {
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]component.SalaryComponent, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.GetAll(ctx, companyID)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestComponentService_Update(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()
	componentID := uuid.New()

	t.Run("success", func(t *testing.T) {
		req := component.UpdateComponentRequest{
			Name:         "Basic Salary (updated)",
			Category:     "FORMULA",
			Formula:      "base",
			DisplayOrder: 1,
		}

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*component.SalaryComponent, error) {
			assert.Equal(t, componentID.String(), id)
			return &component.SalaryComponent{
				ID: componentID, Code: "BASIC", Name: "Basic Salary",
				Type: "EARNING", Category: "FIXED", IsActive: true,
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, c *component.SalaryComponent) error {
			assert.Equal(t, "Basic Salary (updated)", c.Name)
			assert.Equal(t, "FORMULA", c.Category)
			// Code tidak pernah berubah lewat update
			assert.Equal(t, "BASIC", c.Code)
			return nil
		}

		resp, err := deps.service.Update(ctx, companyID, componentID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, "Basic Salary (updated)", resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		req := component.UpdateComponentRequest{Name: "X", Category: "FIXED"}

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*component.SalaryComponent, error) {
			return nil, componenterrors.ErrComponentNotFound
		}

		_, err := deps.service.Update(ctx, companyID, componentID.String(), req)

		assert.ErrorIs(t, err, componenterrors.ErrComponentNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestComponentService_Delete(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()
	componentID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*component.SalaryComponent, error) {
			return &component.SalaryComponent{}, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, cid, id string) error {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, componentID, id)
			return nil
		}

		err := deps.service.Delete(ctx, companyID, componentID)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("repo error", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*component.SalaryComponent, error) {
			return &component.SalaryComponent{}, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, cid, id string) error {
			return errors.New("delete failed")
		}

		err := deps.service.Delete(ctx, companyID, componentID)

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
