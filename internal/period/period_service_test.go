package period_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/engine"
	"go-payroll/internal/period"
	perioderrors "go-payroll/internal/period/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakePeriodRepository struct {
	withTxFn        func(tx *sql.Tx) period.Repository
	createFn        func(ctx context.Context, p *period.PayrollPeriod) error
	findAllFn       func(ctx context.Context, companyID string) ([]period.PayrollPeriod, error)
	findByIDFn      func(ctx context.Context, companyID, id string) (*period.PayrollPeriod, error)
	updateSummaryFn func(ctx context.Context, p *period.PayrollPeriod) error
	setStatusFn     func(ctx context.Context, companyID, id, status string) error
}

func (f *fakePeriodRepository) WithTx(tx *sql.Tx) period.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePeriodRepository) Create(ctx context.Context, p *period.PayrollPeriod) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePeriodRepository) FindAllByCompany(ctx context.Context, companyID string) ([]period.PayrollPeriod, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePeriodRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*period.PayrollPeriod, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakePeriodRepository) UpdateSummary(ctx context.Context, p *period.PayrollPeriod) error {
	if f.updateSummaryFn != nil {
		return f.updateSummaryFn(ctx, p)
	}
	return nil
}

func (f *fakePeriodRepository) SetStatus(ctx context.Context, companyID, id, status string) error {
	if f.setStatusFn != nil {
		return f.setStatusFn(ctx, companyID, id, status)
	}
	return nil
}

type fakeTotalsSource struct {
	totalsFn func(ctx context.Context, companyID, periodID string) ([]engine.SlipTotals, error)
}

func (f *fakeTotalsSource) TotalsForPeriod(ctx context.Context, companyID, periodID string) ([]engine.SlipTotals, error) {
	if f.totalsFn != nil {
		return f.totalsFn(ctx, companyID, periodID)
	}
	return nil, nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service period.Service
	repo    *fakePeriodRepository
	totals  *fakeTotalsSource
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePeriodRepository{}
	totals := &fakeTotalsSource{}
	svc := period.NewService(db, repo, totals)

	return &serviceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, totals: totals}
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

func TestPeriodService_Create(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		req := period.CreatePeriodRequest{
			Name:       "February 2026",
			PeriodType: "MONTHLY",
			StartDate:  "2026-02-01",
			EndDate:    "2026-02-28",
		}

		expectTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, p *period.PayrollPeriod) error {
			assert.Equal(t, period.StatusOpen, p.Status)
			assert.Equal(t, "MONTHLY", p.PeriodType)
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, req)

		assert.NoError(t, err)
		assert.Equal(t, "2026-02-01", resp.StartDate)
		assert.Equal(t, period.StatusOpen, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("end before start rejected", func(t *testing.T) {
		req := period.CreatePeriodRequest{
			Name:       "Broken",
			PeriodType: "MONTHLY",
			StartDate:  "2026-02-28",
			EndDate:    "2026-02-01",
		}

		_, err := deps.service.Create(ctx, companyID, req)

		assert.ErrorIs(t, err, perioderrors.ErrInvalidPeriodRange)
	})
}

func TestPeriodService_RefreshSummary(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()
	periodID := uuid.New()

	openPeriod := func() *period.PayrollPeriod {
		return &period.PayrollPeriod{
			ID:         periodID,
			Name:       "February 2026",
			PeriodType: "MONTHLY",
			StartDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
			Status:     period.StatusOpen,
		}
	}

	t.Run("aggregates slip totals", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*period.PayrollPeriod, error) {
			return openPeriod(), nil
		}
		deps.totals.totalsFn = func(ctx context.Context, cid, pid string) ([]engine.SlipTotals, error) {
			assert.Equal(t, periodID.String(), pid)
			return []engine.SlipTotals{
				{Status: engine.StatusCalculated, GrossPay: decimal.NewFromInt(2000000), TotalDeduction: decimal.NewFromInt(95000), NetPay: decimal.NewFromInt(1905000)},
				{Status: engine.StatusDraft},
			}, nil
		}

		var saved *period.PayrollPeriod
		deps.repo.updateSummaryFn = func(ctx context.Context, p *period.PayrollPeriod) error {
			saved = p
			return nil
		}

		resp, err := deps.service.RefreshSummary(ctx, companyID, periodID.String())

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.Equal(t, 2, saved.TotalEmployees)
		assert.Equal(t, 1, saved.ProcessedEmployees)
		assert.True(t, saved.TotalNetPay.Equal(decimal.NewFromInt(1905000)))
		assert.Equal(t, 2, resp.TotalEmployees)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("refresh twice gives same numbers", func(t *testing.T) {
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*period.PayrollPeriod, error) {
			return openPeriod(), nil
		}
		deps.totals.totalsFn = func(ctx context.Context, cid, pid string) ([]engine.SlipTotals, error) {
			return []engine.SlipTotals{
				{Status: engine.StatusPaid, GrossPay: decimal.NewFromInt(100), TotalDeduction: decimal.NewFromInt(10), NetPay: decimal.NewFromInt(90)},
			}, nil
		}
		deps.repo.updateSummaryFn = nil

		expectTx(t, deps.sqlMock, true)
		first, err := deps.service.RefreshSummary(ctx, companyID, periodID.String())
		assert.NoError(t, err)

		expectTx(t, deps.sqlMock, true)
		second, err := deps.service.RefreshSummary(ctx, companyID, periodID.String())
		assert.NoError(t, err)

		assert.Equal(t, first.TotalNetPay, second.TotalNetPay)
		assert.Equal(t, first.ProcessedEmployees, second.ProcessedEmployees)
	})

	t.Run("totals source error rolls back", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*period.PayrollPeriod, error) {
			return openPeriod(), nil
		}
		deps.totals.totalsFn = func(ctx context.Context, cid, pid string) ([]engine.SlipTotals, error) {
			return nil, errors.New("db error")
		}

		_, err := deps.service.RefreshSummary(ctx, companyID, periodID.String())

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPeriodService_Close(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()
	periodID := uuid.New()

	t.Run("already closed rejected", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*period.PayrollPeriod, error) {
			return &period.PayrollPeriod{ID: periodID, Status: period.StatusClosed}, nil
		}

		err := deps.service.Close(ctx, companyID, periodID.String())

		assert.ErrorIs(t, err, perioderrors.ErrPeriodClosed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
