package component

import (
	"context"
	"database/sql"

	componenterrors "go-payroll/internal/component/errors"
	"go-payroll/internal/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=component_service.go -destination=mock/component_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateComponentRequest) (ComponentResponse, error)
	GetAll(ctx context.Context, companyID string) ([]ComponentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ComponentResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateComponentRequest) (ComponentResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// validateExpressions menolak formula/condition yang tidak lolos grammar
// evaluator sejak create, bukan saat payroll jalan.
func validateExpressions(formula, condition string) error {
	if formula != "" {
		if _, err := engine.Parse(formula); err != nil {
			return componenterrors.ErrInvalidFormula
		}
	}
	if condition != "" {
		if _, err := engine.Parse(condition); err != nil {
			return componenterrors.ErrInvalidFormula
		}
	}
	return nil
}

func parsePercentage(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateComponentRequest,
) (ComponentResponse, error) {
	if err := validateExpressions(req.Formula, req.Condition); err != nil {
		return ComponentResponse{}, err
	}

	company, err := uuid.Parse(companyID)
	if err != nil {
		return ComponentResponse{}, err
	}

	percentage, err := parsePercentage(req.PercentageValue)
	if err != nil {
		return ComponentResponse{}, componenterrors.ErrInvalidFormula
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ComponentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entity := &SalaryComponent{
		ID:        uuid.New(),
		CompanyID: company,
		Code:      req.Code,
		Name:      req.Name,
		Type:      req.Type,
		Category:  req.Category,

		Formula:   req.Formula,
		Condition: req.Condition,

		IsPayable:                    req.IsPayable,
		DependsOnPaymentDays:         req.DependsOnPaymentDays,
		IsTaxApplicable:              req.IsTaxApplicable,
		IsStatisticalComponent:       req.IsStatisticalComponent,
		VariableBasedOnTaxableSalary: req.VariableBasedOnTaxableSalary,

		RoundToNearest:  req.RoundToNearest,
		PercentageOf:    req.PercentageOf,
		PercentageValue: percentage,
		DisplayOrder:    req.DisplayOrder,
		IsActive:        true,
	}

	if err := qtx.Create(ctx, entity); err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ComponentResponse{}, err
	}

	return mapToResponse(*entity), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]ComponentResponse, error) {
	components, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]ComponentResponse, len(components))
	for i, c := range components {
		res[i] = mapToResponse(c)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ComponentResponse, error) {
	entity, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*entity), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateComponentRequest,
) (ComponentResponse, error) {
	if err := validateExpressions(req.Formula, req.Condition); err != nil {
		return ComponentResponse{}, err
	}

	percentage, err := parsePercentage(req.PercentageValue)
	if err != nil {
		return ComponentResponse{}, componenterrors.ErrInvalidFormula
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ComponentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entity, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	entity.Name = req.Name
	entity.Category = req.Category
	entity.Formula = req.Formula
	entity.Condition = req.Condition
	entity.IsPayable = req.IsPayable
	entity.DependsOnPaymentDays = req.DependsOnPaymentDays
	entity.IsTaxApplicable = req.IsTaxApplicable
	entity.IsStatisticalComponent = req.IsStatisticalComponent
	entity.VariableBasedOnTaxableSalary = req.VariableBasedOnTaxableSalary
	entity.RoundToNearest = req.RoundToNearest
	entity.PercentageOf = req.PercentageOf
	entity.PercentageValue = percentage
	entity.DisplayOrder = req.DisplayOrder
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, entity); err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ComponentResponse{}, err
	}

	return mapToResponse(*entity), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByIDAndCompany(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

func mapToResponse(c SalaryComponent) ComponentResponse {
	percentage := ""
	if !c.PercentageValue.IsZero() {
		percentage = c.PercentageValue.String()
	}

	return ComponentResponse{
		ID:       c.ID.String(),
		Code:     c.Code,
		Name:     c.Name,
		Type:     c.Type,
		Category: c.Category,

		Formula:   c.Formula,
		Condition: c.Condition,

		IsPayable:                    c.IsPayable,
		DependsOnPaymentDays:         c.DependsOnPaymentDays,
		IsTaxApplicable:              c.IsTaxApplicable,
		IsStatisticalComponent:       c.IsStatisticalComponent,
		VariableBasedOnTaxableSalary: c.VariableBasedOnTaxableSalary,

		RoundToNearest:  c.RoundToNearest,
		PercentageOf:    c.PercentageOf,
		PercentageValue: percentage,
		DisplayOrder:    c.DisplayOrder,
		IsActive:        c.IsActive,
	}
}

// ToEngineComponent mengubah entity menjadi definisi yang dimengerti engine.
func ToEngineComponent(c SalaryComponent) engine.Component {
	return engine.Component{
		Code:        c.Code,
		Name:        c.Name,
		Type:        engine.ComponentType(c.Type),
		Calculation: engine.CalculationType(c.Category),
		Formula:     c.Formula,
		Condition:   c.Condition,

		IsPayable:                    c.IsPayable,
		DependsOnPaymentDays:         c.DependsOnPaymentDays,
		IsTaxApplicable:              c.IsTaxApplicable,
		IsStatistical:                c.IsStatisticalComponent,
		VariableBasedOnTaxableSalary: c.VariableBasedOnTaxableSalary,

		RoundToNearest:  c.RoundToNearest,
		PercentageOf:    c.PercentageOf,
		PercentageValue: c.PercentageValue,
		DisplayOrder:    c.DisplayOrder,
	}
}
