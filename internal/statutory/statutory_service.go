package statutory

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/engine"
	statutoryerrors "go-payroll/internal/statutory/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=statutory_service.go -destination=mock/statutory_service_mock.go -package=mock
type Service interface {
	CreateTaxSlab(ctx context.Context, companyID string, req CreateTaxSlabRequest) (TaxSlabResponse, error)
	GetTaxSlabs(ctx context.Context, companyID string) ([]TaxSlabResponse, error)
	DeactivateTaxSlab(ctx context.Context, companyID, id string) error

	CreateNSSFConfig(ctx context.Context, companyID string, req CreateNSSFConfigRequest) (NSSFConfigResponse, error)
	GetNSSFConfigs(ctx context.Context, companyID string) ([]NSSFConfigResponse, error)
	DeactivateNSSFConfig(ctx context.Context, companyID, id string) error

	// EngineTaxSlabs / EngineNSSFConfigs memuat konfigurasi dalam bentuk yang
	// langsung dikonsumsi kalkulator.
	EngineTaxSlabs(ctx context.Context, companyID string) ([]engine.TaxSlab, error)
	EngineNSSFConfigs(ctx context.Context, companyID string) ([]engine.NSSFConfig, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

const dateLayout = "2006-01-02"

func parseWindow(from string, to *string) (time.Time, *time.Time, error) {
	effectiveFrom, err := time.Parse(dateLayout, from)
	if err != nil {
		return time.Time{}, nil, statutoryerrors.ErrInvalidDateRange
	}

	var effectiveTo *time.Time
	if to != nil && *to != "" {
		parsed, err := time.Parse(dateLayout, *to)
		if err != nil {
			return time.Time{}, nil, statutoryerrors.ErrInvalidDateRange
		}
		if parsed.Before(effectiveFrom) {
			return time.Time{}, nil, statutoryerrors.ErrInvalidDateRange
		}
		effectiveTo = &parsed
	}

	return effectiveFrom, effectiveTo, nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, statutoryerrors.ErrInvalidAmount
	}
	return d, nil
}

func (s *service) CreateTaxSlab(
	ctx context.Context,
	companyID string,
	req CreateTaxSlabRequest,
) (TaxSlabResponse, error) {
	company, err := uuid.Parse(companyID)
	if err != nil {
		return TaxSlabResponse{}, err
	}

	minAmount, err := parseDecimal(req.MinAmount)
	if err != nil {
		return TaxSlabResponse{}, err
	}

	var maxAmount *decimal.Decimal
	if req.MaxAmount != nil && *req.MaxAmount != "" {
		parsed, err := parseDecimal(*req.MaxAmount)
		if err != nil {
			return TaxSlabResponse{}, err
		}
		if parsed.LessThanOrEqual(minAmount) {
			return TaxSlabResponse{}, statutoryerrors.ErrInvalidAmount
		}
		maxAmount = &parsed
	}

	taxRate, err := parseDecimal(req.TaxRate)
	if err != nil {
		return TaxSlabResponse{}, err
	}

	fixedTax := decimal.Zero
	if req.FixedTax != "" {
		if fixedTax, err = parseDecimal(req.FixedTax); err != nil {
			return TaxSlabResponse{}, err
		}
	}

	effectiveFrom, effectiveTo, err := parseWindow(req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		return TaxSlabResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TaxSlabResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	slab := &TaxSlab{
		ID:            uuid.New(),
		CompanyID:     company,
		MinAmount:     minAmount,
		MaxAmount:     maxAmount,
		TaxRate:       taxRate,
		FixedTax:      fixedTax,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		IsActive:      true,
	}

	if err := qtx.CreateTaxSlab(ctx, slab); err != nil {
		return TaxSlabResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TaxSlabResponse{}, err
	}

	return mapSlabToResponse(*slab), nil
}

func (s *service) GetTaxSlabs(ctx context.Context, companyID string) ([]TaxSlabResponse, error) {
	slabs, err := s.repo.FindTaxSlabsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	res := make([]TaxSlabResponse, len(slabs))
	for i, slab := range slabs {
		res[i] = mapSlabToResponse(slab)
	}
	return res, nil
}

func (s *service) DeactivateTaxSlab(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DeactivateTaxSlab(ctx, companyID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) CreateNSSFConfig(
	ctx context.Context,
	companyID string,
	req CreateNSSFConfigRequest,
) (NSSFConfigResponse, error) {
	company, err := uuid.Parse(companyID)
	if err != nil {
		return NSSFConfigResponse{}, err
	}

	employeeRate, err := parseDecimal(req.EmployeeRate)
	if err != nil {
		return NSSFConfigResponse{}, err
	}
	employerRate, err := parseDecimal(req.EmployerRate)
	if err != nil {
		return NSSFConfigResponse{}, err
	}
	maxSalaryCap, err := parseDecimal(req.MaxSalaryCap)
	if err != nil {
		return NSSFConfigResponse{}, err
	}

	effectiveFrom, effectiveTo, err := parseWindow(req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		return NSSFConfigResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NSSFConfigResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cfg := &NSSFConfiguration{
		ID:               uuid.New(),
		CompanyID:        company,
		ContributionType: req.ContributionType,
		EmployeeRate:     employeeRate,
		EmployerRate:     employerRate,
		MaxSalaryCap:     maxSalaryCap,
		EffectiveFrom:    effectiveFrom,
		EffectiveTo:      effectiveTo,
		IsActive:         true,
	}

	if err := qtx.CreateNSSFConfig(ctx, cfg); err != nil {
		return NSSFConfigResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return NSSFConfigResponse{}, err
	}

	return mapConfigToResponse(*cfg), nil
}

func (s *service) GetNSSFConfigs(ctx context.Context, companyID string) ([]NSSFConfigResponse, error) {
	configs, err := s.repo.FindNSSFConfigsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	res := make([]NSSFConfigResponse, len(configs))
	for i, cfg := range configs {
		res[i] = mapConfigToResponse(cfg)
	}
	return res, nil
}

func (s *service) DeactivateNSSFConfig(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DeactivateNSSFConfig(ctx, companyID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) EngineTaxSlabs(ctx context.Context, companyID string) ([]engine.TaxSlab, error) {
	slabs, err := s.repo.FindTaxSlabsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	res := make([]engine.TaxSlab, len(slabs))
	for i, slab := range slabs {
		res[i] = engine.TaxSlab{
			MinAmount:     slab.MinAmount,
			MaxAmount:     slab.MaxAmount,
			TaxRate:       slab.TaxRate,
			FixedTax:      slab.FixedTax,
			EffectiveFrom: slab.EffectiveFrom,
			EffectiveTo:   slab.EffectiveTo,
			IsActive:      slab.IsActive,
		}
	}
	return res, nil
}

func (s *service) EngineNSSFConfigs(ctx context.Context, companyID string) ([]engine.NSSFConfig, error) {
	configs, err := s.repo.FindNSSFConfigsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	res := make([]engine.NSSFConfig, len(configs))
	for i, cfg := range configs {
		res[i] = engine.NSSFConfig{
			ContributionType: cfg.ContributionType,
			EmployeeRate:     cfg.EmployeeRate,
			EmployerRate:     cfg.EmployerRate,
			MaxSalaryCap:     cfg.MaxSalaryCap,
			EffectiveFrom:    cfg.EffectiveFrom,
			EffectiveTo:      cfg.EffectiveTo,
			IsActive:         cfg.IsActive,
		}
	}
	return res, nil
}

func mapSlabToResponse(slab TaxSlab) TaxSlabResponse {
	var maxAmount *string
	if slab.MaxAmount != nil {
		v := slab.MaxAmount.String()
		maxAmount = &v
	}
	var effectiveTo *string
	if slab.EffectiveTo != nil {
		v := slab.EffectiveTo.Format(dateLayout)
		effectiveTo = &v
	}

	return TaxSlabResponse{
		ID:            slab.ID.String(),
		MinAmount:     slab.MinAmount.String(),
		MaxAmount:     maxAmount,
		TaxRate:       slab.TaxRate.String(),
		FixedTax:      slab.FixedTax.String(),
		EffectiveFrom: slab.EffectiveFrom.Format(dateLayout),
		EffectiveTo:   effectiveTo,
		IsActive:      slab.IsActive,
	}
}

func mapConfigToResponse(cfg NSSFConfiguration) NSSFConfigResponse {
	var effectiveTo *string
	if cfg.EffectiveTo != nil {
		v := cfg.EffectiveTo.Format(dateLayout)
		effectiveTo = &v
	}

	return NSSFConfigResponse{
		ID:               cfg.ID.String(),
		ContributionType: cfg.ContributionType,
		EmployeeRate:     cfg.EmployeeRate.String(),
		EmployerRate:     cfg.EmployerRate.String(),
		MaxSalaryCap:     cfg.MaxSalaryCap.String(),
		EffectiveFrom:    cfg.EffectiveFrom.Format(dateLayout),
		EffectiveTo:      effectiveTo,
		IsActive:         cfg.IsActive,
	}
}
