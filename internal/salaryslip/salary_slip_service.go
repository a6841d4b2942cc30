package salaryslip

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-payroll/internal/engine"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/period"
	salarysliperrors "go-payroll/internal/salaryslip/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft      = "DRAFT"
	StatusCalculated = "CALCULATED"
	StatusApproved   = "APPROVED"
	StatusPaid       = "PAID"
	StatusCancelled  = "CANCELLED"
)

// PeriodSource, AssignmentSource, StatutorySource dan AdditionalPaySource
// adalah irisan sempit dari service modul lain yang dibutuhkan perhitungan.
type PeriodSource interface {
	EnginePeriod(ctx context.Context, companyID, id string) (*period.PayrollPeriod, engine.Period, error)
	RefreshSummary(ctx context.Context, companyID, id string) (period.PeriodResponse, error)
}

type AssignmentSource interface {
	EngineAssignments(ctx context.Context, companyID, employeeID string) ([]engine.Assignment, error)
	ActiveEmployeeIDs(ctx context.Context, companyID string) ([]string, error)
}

type StatutorySource interface {
	EngineTaxSlabs(ctx context.Context, companyID string) ([]engine.TaxSlab, error)
	EngineNSSFConfigs(ctx context.Context, companyID string) ([]engine.NSSFConfig, error)
}

type AdditionalPaySource interface {
	EngineAdditional(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]engine.AdditionalPay, error)
}

//go:generate mockgen -source=salary_slip_service.go -destination=mock/salary_slip_service_mock.go -package=mock
type Service interface {
	Calculate(ctx context.Context, companyID, actorID string, req CalculateSlipRequest) (SlipResponse, error)
	GenerateForPeriod(ctx context.Context, companyID, actorID string, req GenerateForPeriodRequest) (GenerateForPeriodResponse, error)
	GetAll(ctx context.Context, companyID string, filter GetSlipsFilterRequest) ([]SlipResponse, error)
	GetByID(ctx context.Context, companyID, id string) (SlipResponse, error)
	GetBreakdown(ctx context.Context, companyID, id string) (SlipBreakdownResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (SlipResponse, error)
	MarkAsPaid(ctx context.Context, companyID, actorID, id string) (SlipResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	GeneratePayslip(ctx context.Context, companyID, id string) (SlipResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository

	periods     PeriodSource
	assignments AssignmentSource
	statutory   StatutorySource
	additional  AdditionalPaySource

	outbox     kafka.OutboxRepository
	payslipDir string
}

func NewService(
	db *sql.DB,
	repo Repository,
	periods PeriodSource,
	assignments AssignmentSource,
	statutory StatutorySource,
	additional AdditionalPaySource,
) Service {
	return &service{
		db:          db,
		repo:        repo,
		periods:     periods,
		assignments: assignments,
		statutory:   statutory,
		additional:  additional,
		payslipDir:  filepath.Join("storage", "payslips"),
	}
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	periods PeriodSource,
	assignments AssignmentSource,
	statutory StatutorySource,
	additional AdditionalPaySource,
	outbox kafka.OutboxRepository,
) Service {
	svc := NewService(db, repo, periods, assignments, statutory, additional).(*service)
	svc.outbox = outbox
	return svc
}

// statutoryRates adalah konfigurasi pajak dan NSSF yang dimuat sekali per
// request lalu dipakai ulang untuk seluruh karyawan dalam batch.
type statutoryRates struct {
	taxSlabs    []engine.TaxSlab
	nssfConfigs []engine.NSSFConfig
}

func (s *service) loadRates(ctx context.Context, companyID string) (statutoryRates, error) {
	slabs, err := s.statutory.EngineTaxSlabs(ctx, companyID)
	if err != nil {
		return statutoryRates{}, err
	}
	configs, err := s.statutory.EngineNSSFConfigs(ctx, companyID)
	if err != nil {
		return statutoryRates{}, err
	}
	return statutoryRates{taxSlabs: slabs, nssfConfigs: configs}, nil
}

func (s *service) buildInput(
	ctx context.Context,
	companyID, employeeID string,
	enginePeriod engine.Period,
	rates statutoryRates,
) (engine.Input, error) {
	emp, err := s.repo.FindDirectoryEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.Input{}, salarysliperrors.ErrEmployeeNotInCompany
		}
		return engine.Input{}, err
	}

	assignments, err := s.assignments.EngineAssignments(ctx, companyID, employeeID)
	if err != nil {
		return engine.Input{}, err
	}

	additional, err := s.additional.EngineAdditional(
		ctx, companyID, employeeID,
		enginePeriod.StartDate, enginePeriod.EndDate,
	)
	if err != nil {
		return engine.Input{}, err
	}

	// Tanpa data kehadiran sama sekali, karyawan dianggap hadir penuh;
	// engine memperlakukan PaymentDays <= 0 sebagai kehadiran penuh.
	paymentDays, err := s.repo.PresentDays(ctx, companyID, employeeID, enginePeriod.StartDate, enginePeriod.EndDate)
	if err != nil {
		return engine.Input{}, err
	}

	return engine.Input{
		EmployeeID:  employeeID,
		Dependents:  emp.Dependents,
		Period:      enginePeriod,
		Assignments: assignments,
		TaxSlabs:    rates.taxSlabs,
		NSSFConfigs: rates.nssfConfigs,
		Additional:  additional,
		PaymentDays: paymentDays,
	}, nil
}

func (s *service) Calculate(
	ctx context.Context,
	companyID, actorID string,
	req CalculateSlipRequest,
) (SlipResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SlipResponse{}, err
	}

	periodEntity, enginePeriod, err := s.periods.EnginePeriod(ctx, companyID, req.PeriodID)
	if err != nil {
		return SlipResponse{}, err
	}
	if periodEntity.Status == period.StatusClosed {
		return SlipResponse{}, salarysliperrors.ErrPeriodClosed
	}

	rates, err := s.loadRates(ctx, companyID)
	if err != nil {
		return SlipResponse{}, err
	}

	input, err := s.buildInput(ctx, companyID, req.EmployeeID, enginePeriod, rates)
	if err != nil {
		return SlipResponse{}, err
	}

	result, err := engine.Calculate(input)
	if err != nil {
		return SlipResponse{}, mapEngineError(err)
	}

	slip, err := s.persistResult(ctx, companyUUID, periodEntity.ID, result)
	if err != nil {
		return SlipResponse{}, err
	}
	return mapToResponse(*slip), nil
}

// persistResult menyimpan hasil perhitungan sebagai full replace: slip lama
// (bila ada) ditimpa beserta seluruh detailnya dalam satu transaksi.
func (s *service) persistResult(
	ctx context.Context,
	companyID, periodID uuid.UUID,
	result engine.Result,
) (*SalarySlip, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByEmployeeAndPeriod(ctx, companyID.String(), result.EmployeeID, periodID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slip, err := slipFromResult(companyID, periodID, result)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.Status == StatusApproved || existing.Status == StatusPaid {
			return nil, salarysliperrors.ErrRecalculateLocked
		}
		slip.ID = existing.ID
		slip.CreatedAt = existing.CreatedAt
		for i := range slip.Details {
			slip.Details[i].SlipID = existing.ID
		}
		if err := qtx.Update(ctx, slip); err != nil {
			return nil, mapRepositoryError(err)
		}
	} else {
		if err := qtx.Create(ctx, slip); err != nil {
			return nil, mapRepositoryError(err)
		}
	}

	if err := qtx.ReplaceDetails(ctx, slip); err != nil {
		return nil, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return slip, nil
}

func slipFromResult(companyID, periodID uuid.UUID, result engine.Result) (*SalarySlip, error) {
	employeeID, err := uuid.Parse(result.EmployeeID)
	if err != nil {
		return nil, err
	}
	structureID, err := uuid.Parse(result.StructureID)
	if err != nil {
		return nil, err
	}

	slip := &SalarySlip{
		ID:          uuid.New(),
		CompanyID:   companyID,
		PeriodID:    periodID,
		EmployeeID:  employeeID,
		StructureID: structureID,

		BaseSalary:       result.BaseSalary,
		MonthlyBase:      result.MonthlyBase,
		PeriodMultiplier: result.PeriodMultiplier,

		TotalWorkingDays: result.TotalWorkingDays,
		PaymentDays:      result.PaymentDays,
		LeaveWithoutPay:  result.LeaveWithoutPay,

		GrossPay:       result.GrossPay,
		TotalDeduction: result.TotalDeduction,
		NetPay:         result.NetPay,
		RoundedTotal:   result.RoundedTotal,

		SalaryTax:    result.SalaryTax,
		EmployeeNSSF: result.EmployeeNSSF,
		EmployerNSSF: result.EmployerNSSF,

		Status: string(result.Status),
	}

	order := 0
	appendDetails := func(details []engine.Detail) {
		for _, d := range details {
			slip.Details = append(slip.Details, SalarySlipDetail{
				ID:            uuid.New(),
				SlipID:        slip.ID,
				CompanyID:     companyID,
				Code:          d.Code,
				Name:          d.Name,
				Type:          string(d.Type),
				Amount:        d.Amount,
				Statistical:   d.Statistical,
				TaxApplicable: d.TaxApplicable,
				DisplayOrder:  order,
			})
			order++
		}
	}
	appendDetails(result.Earnings)
	appendDetails(result.Deductions)

	return slip, nil
}

func (s *service) GenerateForPeriod(
	ctx context.Context,
	companyID, actorID string,
	req GenerateForPeriodRequest,
) (GenerateForPeriodResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return GenerateForPeriodResponse{}, err
	}

	periodEntity, enginePeriod, err := s.periods.EnginePeriod(ctx, companyID, req.PeriodID)
	if err != nil {
		return GenerateForPeriodResponse{}, err
	}
	if periodEntity.Status == period.StatusClosed {
		return GenerateForPeriodResponse{}, salarysliperrors.ErrPeriodClosed
	}

	employeeIDs, err := s.assignments.ActiveEmployeeIDs(ctx, companyID)
	if err != nil {
		return GenerateForPeriodResponse{}, err
	}

	rates, err := s.loadRates(ctx, companyID)
	if err != nil {
		return GenerateForPeriodResponse{}, err
	}

	resp := GenerateForPeriodResponse{PeriodID: req.PeriodID}

	inputs := make([]engine.Input, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		input, err := s.buildInput(ctx, companyID, employeeID, enginePeriod, rates)
		if err != nil {
			resp.Skipped = append(resp.Skipped, SkippedEmployee{
				EmployeeID: employeeID,
				Reason:     err.Error(),
			})
			continue
		}
		inputs = append(inputs, input)
	}

	// Kegagalan satu karyawan tidak menggagalkan batch; slip yang berhasil
	// tetap tersimpan dan sisanya dilaporkan sebagai skipped.
	items := engine.CalculateBatch(ctx, inputs, req.Workers)
	for _, item := range items {
		if item.Err != nil {
			resp.Skipped = append(resp.Skipped, SkippedEmployee{
				EmployeeID: item.EmployeeID,
				Reason:     mapEngineError(item.Err).Error(),
			})
			continue
		}

		if _, err := s.persistResult(ctx, companyUUID, periodEntity.ID, item.Result); err != nil {
			resp.Skipped = append(resp.Skipped, SkippedEmployee{
				EmployeeID: item.EmployeeID,
				Reason:     err.Error(),
			})
			continue
		}
		resp.Created = append(resp.Created, item.EmployeeID)
	}

	if _, err := s.periods.RefreshSummary(ctx, companyID, req.PeriodID); err != nil {
		return resp, err
	}
	return resp, nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
	filter GetSlipsFilterRequest,
) ([]SlipResponse, error) {
	slips, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]SlipResponse, len(slips))
	for i, slip := range slips {
		resp[i] = mapToResponse(slip)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (SlipResponse, error) {
	slip, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return SlipResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*slip), nil
}

func (s *service) GetBreakdown(ctx context.Context, companyID, id string) (SlipBreakdownResponse, error) {
	slip, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return SlipBreakdownResponse{}, mapRepositoryError(err)
	}

	breakdown := SlipBreakdownResponse{Slip: mapToResponse(*slip)}
	for _, d := range slip.Details {
		detail := mapDetailToResponse(d)
		if d.Type == string(engine.Deduction) {
			breakdown.Deductions = append(breakdown.Deductions, detail)
		} else {
			breakdown.Earnings = append(breakdown.Earnings, detail)
		}
	}
	return breakdown, nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (SlipResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SlipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	slip, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return SlipResponse{}, mapRepositoryError(err)
	}
	if slip.Status != StatusCalculated {
		return SlipResponse{}, salarysliperrors.ErrApproveOnlyCalculated
	}

	now := time.Now().UTC()
	slip.Status = StatusApproved
	slip.ApprovedAt = &now
	if approver, parseErr := uuid.Parse(actorID); parseErr == nil {
		slip.ApprovedBy = &approver
	}

	if err := qtx.Update(ctx, slip); err != nil {
		return SlipResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		if err := s.enqueuePayslipRequested(ctx, tx, slip, actorID); err != nil {
			return SlipResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return SlipResponse{}, err
	}
	return mapToResponse(*slip), nil
}

func (s *service) enqueuePayslipRequested(
	ctx context.Context,
	tx *sql.Tx,
	slip *SalarySlip,
	actorID string,
) error {
	event := events.PayslipRequestedEvent{
		EventType:   "payslip_requested",
		SlipID:      slip.ID.String(),
		CompanyID:   slip.CompanyID.String(),
		RequestedBy: actorID,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     uuid.New().String(),
		AggregateType: "salary_slip",
		AggregateID:   slip.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayslipRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) MarkAsPaid(ctx context.Context, companyID, actorID, id string) (SlipResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SlipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	slip, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return SlipResponse{}, mapRepositoryError(err)
	}
	if slip.Status != StatusApproved {
		return SlipResponse{}, salarysliperrors.ErrPayOnlyApproved
	}

	now := time.Now().UTC()
	slip.Status = StatusPaid
	slip.PaidAt = &now

	if err := qtx.Update(ctx, slip); err != nil {
		return SlipResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return SlipResponse{}, err
	}
	return mapToResponse(*slip), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	slip, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if slip.Status != StatusDraft && slip.Status != StatusCalculated {
		return salarysliperrors.ErrDeleteLocked
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	return tx.Commit()
}

func (s *service) GeneratePayslip(ctx context.Context, companyID, id string) (SlipResponse, error) {
	slip, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return SlipResponse{}, mapRepositoryError(err)
	}

	document, err := buildPayslipPDF(slip)
	if err != nil {
		return SlipResponse{}, err
	}

	if err := os.MkdirAll(s.payslipDir, 0o755); err != nil {
		return SlipResponse{}, err
	}
	filename := fmt.Sprintf("%s.pdf", slip.ID)
	if err := os.WriteFile(filepath.Join(s.payslipDir, filename), document, 0o644); err != nil {
		return SlipResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SlipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	now := time.Now().UTC()
	url := "/files/payslips/" + filename
	slip.PayslipURL = &url
	slip.PayslipGeneratedAt = &now

	if err := qtx.Update(ctx, slip); err != nil {
		return SlipResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return SlipResponse{}, err
	}
	return mapToResponse(*slip), nil
}

func mapEngineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrNoActiveAssignment):
		return salarysliperrors.ErrNoActiveAssignment
	case errors.Is(err, engine.ErrInvalidPeriod):
		return salarysliperrors.ErrInvalidPeriodRange
	default:
		return err
	}
}

func mapToResponse(slip SalarySlip) SlipResponse {
	resp := SlipResponse{
		ID:          slip.ID.String(),
		CompanyID:   slip.CompanyID.String(),
		PeriodID:    slip.PeriodID.String(),
		EmployeeID:  slip.EmployeeID.String(),
		StructureID: slip.StructureID.String(),

		BaseSalary:       slip.BaseSalary.String(),
		MonthlyBase:      slip.MonthlyBase.String(),
		PeriodMultiplier: slip.PeriodMultiplier.String(),

		TotalWorkingDays: slip.TotalWorkingDays,
		PaymentDays:      slip.PaymentDays,
		LeaveWithoutPay:  slip.LeaveWithoutPay,

		GrossPay:       slip.GrossPay.String(),
		TotalDeduction: slip.TotalDeduction.String(),
		NetPay:         slip.NetPay.String(),
		RoundedTotal:   slip.RoundedTotal.String(),

		SalaryTax:    slip.SalaryTax.String(),
		EmployeeNSSF: slip.EmployeeNSSF.String(),
		EmployerNSSF: slip.EmployerNSSF.String(),

		Status:     slip.Status,
		PayslipURL: slip.PayslipURL,
	}

	if slip.ApprovedBy != nil {
		v := slip.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if slip.ApprovedAt != nil {
		v := slip.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if slip.PaidAt != nil {
		v := slip.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}

	return resp
}

func mapDetailToResponse(d SalarySlipDetail) SlipDetailResponse {
	return SlipDetailResponse{
		Code:          d.Code,
		Name:          d.Name,
		Type:          d.Type,
		Amount:        d.Amount.String(),
		Statistical:   d.Statistical,
		TaxApplicable: d.TaxApplicable,
	}
}
