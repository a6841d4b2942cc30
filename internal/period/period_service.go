package period

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/engine"
	perioderrors "go-payroll/internal/period/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SlipTotalsSource memasok total slip sebuah periode. Diimplementasikan oleh
// repository salary slip; interface ini memutus ketergantungan dua arah antar
// paket.
type SlipTotalsSource interface {
	TotalsForPeriod(ctx context.Context, companyID, periodID string) ([]engine.SlipTotals, error)
}

//go:generate mockgen -source=period_service.go -destination=mock/period_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreatePeriodRequest) (PeriodResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PeriodResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PeriodResponse, error)
	Close(ctx context.Context, companyID, id string) error

	// RefreshSummary menghitung ulang kolom summary dari slip. Aman dipanggil
	// kapan saja dan berapa kali pun.
	RefreshSummary(ctx context.Context, companyID, id string) (PeriodResponse, error)

	// EnginePeriod memuat periode dalam bentuk yang dikonsumsi engine.
	EnginePeriod(ctx context.Context, companyID, id string) (*PayrollPeriod, engine.Period, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	totals SlipTotalsSource
}

func NewService(db *sql.DB, repo Repository, totals SlipTotalsSource) Service {
	return &service{db: db, repo: repo, totals: totals}
}

const dateLayout = "2006-01-02"

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreatePeriodRequest,
) (PeriodResponse, error) {
	company, err := uuid.Parse(companyID)
	if err != nil {
		return PeriodResponse{}, err
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return PeriodResponse{}, perioderrors.ErrInvalidPeriodRange
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return PeriodResponse{}, perioderrors.ErrInvalidPeriodRange
	}
	if endDate.Before(startDate) {
		return PeriodResponse{}, perioderrors.ErrInvalidPeriodRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entity := &PayrollPeriod{
		ID:         uuid.New(),
		CompanyID:  company,
		Name:       req.Name,
		PeriodType: req.PeriodType,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     StatusOpen,
	}

	if err := qtx.Create(ctx, entity); err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	return mapToResponse(*entity), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]PeriodResponse, error) {
	periods, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		res[i] = mapToResponse(p)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	entity, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*entity), nil
}

func (s *service) Close(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entity, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if entity.Status == StatusClosed {
		return perioderrors.ErrPeriodClosed
	}

	if err := qtx.SetStatus(ctx, companyID, id, StatusClosed); err != nil {
		return mapRepositoryError(err)
	}
	return tx.Commit()
}

func (s *service) RefreshSummary(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entity, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}

	slips, err := s.totals.TotalsForPeriod(ctx, companyID, id)
	if err != nil {
		return PeriodResponse{}, err
	}

	summary := engine.Summarize(slips)
	entity.TotalEmployees = summary.TotalEmployees
	entity.ProcessedEmployees = summary.ProcessedEmployees
	entity.TotalGrossPay = summary.TotalGrossPay
	entity.TotalDeductions = summary.TotalDeductions
	entity.TotalNetPay = summary.TotalNetPay

	if err := qtx.UpdateSummary(ctx, entity); err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	now := time.Now()
	entity.SummaryRefreshedAt = &now
	return mapToResponse(*entity), nil
}

func (s *service) EnginePeriod(ctx context.Context, companyID, id string) (*PayrollPeriod, engine.Period, error) {
	entity, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, engine.Period{}, mapRepositoryError(err)
	}

	return entity, engine.Period{
		Type:      engine.PeriodType(entity.PeriodType),
		StartDate: entity.StartDate,
		EndDate:   entity.EndDate,
	}, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return perioderrors.ErrPeriodNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_period_company_dates" {
		return perioderrors.ErrPeriodAlreadyExists
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_period_company_dates") {
		return perioderrors.ErrPeriodAlreadyExists
	}

	return err
}

func mapToResponse(p PayrollPeriod) PeriodResponse {
	var refreshedAt *string
	if p.SummaryRefreshedAt != nil {
		v := p.SummaryRefreshedAt.Format(time.RFC3339)
		refreshedAt = &v
	}

	return PeriodResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		PeriodType: p.PeriodType,
		StartDate:  p.StartDate.Format(dateLayout),
		EndDate:    p.EndDate.Format(dateLayout),
		Status:     p.Status,

		TotalEmployees:     p.TotalEmployees,
		ProcessedEmployees: p.ProcessedEmployees,
		TotalGrossPay:      p.TotalGrossPay.String(),
		TotalDeductions:    p.TotalDeductions.String(),
		TotalNetPay:        p.TotalNetPay.String(),
		SummaryRefreshedAt: refreshedAt,
	}
}
