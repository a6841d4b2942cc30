package additionalsalary

import (
	"context"
	"database/sql"
	"errors"
	"time"

	additionalsalaryerrors "go-payroll/internal/additionalsalary/errors"
	"go-payroll/internal/component"
	"go-payroll/internal/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=additional_salary_service.go -destination=mock/additional_salary_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateAdditionalSalaryRequest) (AdditionalSalaryResponse, error)
	GetAll(ctx context.Context, companyID string) ([]AdditionalSalaryResponse, error)
	GetByID(ctx context.Context, companyID, id string) (AdditionalSalaryResponse, error)
	Activate(ctx context.Context, companyID, id string) error
	Cancel(ctx context.Context, companyID, id string) error

	// EngineAdditional memuat entri ACTIVE dalam jendela periode dalam bentuk
	// yang dikonsumsi engine.
	EngineAdditional(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]engine.AdditionalPay, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

const dateLayout = "2006-01-02"

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateAdditionalSalaryRequest,
) (AdditionalSalaryResponse, error) {
	company, err := uuid.Parse(companyID)
	if err != nil {
		return AdditionalSalaryResponse{}, err
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AdditionalSalaryResponse{}, err
	}
	componentID, err := uuid.Parse(req.ComponentID)
	if err != nil {
		return AdditionalSalaryResponse{}, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return AdditionalSalaryResponse{}, additionalsalaryerrors.ErrInvalidAmount
	}
	payrollDate, err := time.Parse(dateLayout, req.PayrollDate)
	if err != nil {
		return AdditionalSalaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AdditionalSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry := &AdditionalSalary{
		ID:          uuid.New(),
		CompanyID:   company,
		EmployeeID:  employeeID,
		ComponentID: componentID,
		Amount:      amount,
		PayrollDate: payrollDate,
		Reason:      req.Reason,
		Status:      StatusDraft,
	}

	if err := qtx.Create(ctx, entry); err != nil {
		return AdditionalSalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return AdditionalSalaryResponse{}, err
	}

	return mapToResponse(*entry), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]AdditionalSalaryResponse, error) {
	entries, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]AdditionalSalaryResponse, len(entries))
	for i, e := range entries {
		res[i] = mapToResponse(e)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (AdditionalSalaryResponse, error) {
	entry, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return AdditionalSalaryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*entry), nil
}

func (s *service) Activate(ctx context.Context, companyID, id string) error {
	return s.transition(ctx, companyID, id, StatusDraft, StatusActive)
}

func (s *service) Cancel(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	// COMPLETED sudah terbayar, tidak bisa dibatalkan lagi
	if entry.Status == StatusCompleted || entry.Status == StatusCancelled {
		return additionalsalaryerrors.ErrInvalidStatusTransition
	}

	if err := qtx.SetStatus(ctx, companyID, id, StatusCancelled); err != nil {
		return mapRepositoryError(err)
	}
	return tx.Commit()
}

func (s *service) transition(ctx context.Context, companyID, id, from, to string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if entry.Status != from {
		return additionalsalaryerrors.ErrInvalidStatusTransition
	}

	if err := qtx.SetStatus(ctx, companyID, id, to); err != nil {
		return mapRepositoryError(err)
	}
	return tx.Commit()
}

func (s *service) EngineAdditional(
	ctx context.Context,
	companyID, employeeID string,
	start, end time.Time,
) ([]engine.AdditionalPay, error) {
	entries, err := s.repo.FindActiveInWindow(ctx, companyID, employeeID, start, end)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]engine.AdditionalPay, len(entries))
	for i, e := range entries {
		res[i] = engine.AdditionalPay{
			Component:   component.ToEngineComponent(e.Component),
			Amount:      e.Amount,
			PayrollDate: e.PayrollDate,
			Status:      engine.AdditionalStatus(e.Status),
		}
	}
	return res, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return additionalsalaryerrors.ErrAdditionalSalaryNotFound
	}
	return err
}

func mapToResponse(e AdditionalSalary) AdditionalSalaryResponse {
	return AdditionalSalaryResponse{
		ID:            e.ID.String(),
		EmployeeID:    e.EmployeeID.String(),
		ComponentID:   e.ComponentID.String(),
		ComponentCode: e.Component.Code,
		Amount:        e.Amount.String(),
		PayrollDate:   e.PayrollDate.Format(dateLayout),
		Reason:        e.Reason,
		Status:        e.Status,
	}
}
