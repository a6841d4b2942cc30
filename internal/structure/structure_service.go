package structure

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/component"
	"go-payroll/internal/engine"
	structureerrors "go-payroll/internal/structure/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=structure_service.go -destination=mock/structure_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateStructureRequest) (StructureResponse, error)
	GetAll(ctx context.Context, companyID string) ([]StructureResponse, error)
	GetByID(ctx context.Context, companyID, id string) (StructureResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateStructureRequest) (StructureResponse, error)
	Submit(ctx context.Context, companyID, id string) (StructureResponse, error)

	CreateAssignment(ctx context.Context, companyID string, req CreateAssignmentRequest) (AssignmentResponse, error)
	GetAssignments(ctx context.Context, companyID, employeeID string) ([]AssignmentResponse, error)
	DeactivateAssignment(ctx context.Context, companyID, id string) error

	// EngineAssignments memuat seluruh kandidat assignment seorang karyawan
	// lengkap dengan plan structure yang sudah diparse, siap untuk engine.
	EngineAssignments(ctx context.Context, companyID, employeeID string) ([]engine.Assignment, error)

	// ActiveEmployeeIDs mengembalikan karyawan yang punya assignment aktif;
	// inilah populasi sebuah payroll run.
	ActiveEmployeeIDs(ctx context.Context, companyID string) ([]string, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

const dateLayout = "2006-01-02"

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func buildDetails(structureID uuid.UUID, lines []DetailLineRequest) ([]SalaryDetail, error) {
	details := make([]SalaryDetail, len(lines))
	for i, line := range lines {
		componentID, err := uuid.Parse(line.ComponentID)
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount(line.Amount)
		if err != nil {
			return nil, err
		}

		details[i] = SalaryDetail{
			ID:          uuid.New(),
			StructureID: structureID,
			ComponentID: componentID,
			Amount:      amount,
			Formula:     line.Formula,
			Condition:   line.Condition,
		}
	}
	return details, nil
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateStructureRequest,
) (StructureResponse, error) {
	company, err := uuid.Parse(companyID)
	if err != nil {
		return StructureResponse{}, err
	}

	hourRate, err := parseAmount(req.HourRate)
	if err != nil {
		return StructureResponse{}, err
	}

	structureID := uuid.New()
	details, err := buildDetails(structureID, req.Details)
	if err != nil {
		return StructureResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entity := &SalaryStructure{
		ID:         structureID,
		CompanyID:  company,
		Name:       req.Name,
		PeriodType: req.PeriodType,
		HourRate:   hourRate,
		DocStatus:  DocStatusDraft,
		IsActive:   true,
		Details:    details,
	}

	if err := qtx.Create(ctx, entity); err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	created, err := qtx.FindByIDAndCompany(ctx, companyID, structureID.String())
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return StructureResponse{}, err
	}

	return mapStructureToResponse(*created), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]StructureResponse, error) {
	structures, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]StructureResponse, len(structures))
	for i, st := range structures {
		res[i] = mapStructureToResponse(st)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (StructureResponse, error) {
	entity, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}
	return mapStructureToResponse(*entity), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateStructureRequest,
) (StructureResponse, error) {
	hourRate, err := parseAmount(req.HourRate)
	if err != nil {
		return StructureResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entity, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}
	if entity.DocStatus != DocStatusDraft {
		return StructureResponse{}, structureerrors.ErrStructureSubmitted
	}

	details, err := buildDetails(entity.ID, req.Details)
	if err != nil {
		return StructureResponse{}, err
	}

	entity.Name = req.Name
	entity.PeriodType = req.PeriodType
	entity.HourRate = hourRate

	if err := qtx.Update(ctx, entity); err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}
	if err := qtx.ReplaceDetails(ctx, id, details); err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	updated, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return StructureResponse{}, err
	}

	return mapStructureToResponse(*updated), nil
}

// Submit membekukan structure. Setelah submitted, baris detail tidak bisa
// diubah lagi dan structure boleh dipakai assignment.
func (s *service) Submit(ctx context.Context, companyID, id string) (StructureResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entity, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}
	if entity.DocStatus != DocStatusDraft {
		return StructureResponse{}, structureerrors.ErrStructureSubmitted
	}

	if err := qtx.SetDocStatus(ctx, companyID, id, DocStatusSubmitted); err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return StructureResponse{}, err
	}

	entity.DocStatus = DocStatusSubmitted
	return mapStructureToResponse(*entity), nil
}

func (s *service) CreateAssignment(
	ctx context.Context,
	companyID string,
	req CreateAssignmentRequest,
) (AssignmentResponse, error) {
	company, err := uuid.Parse(companyID)
	if err != nil {
		return AssignmentResponse{}, err
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AssignmentResponse{}, err
	}
	structureID, err := uuid.Parse(req.StructureID)
	if err != nil {
		return AssignmentResponse{}, err
	}

	baseSalary, err := decimal.NewFromString(req.BaseSalary)
	if err != nil {
		return AssignmentResponse{}, err
	}
	fromDate, err := time.Parse(dateLayout, req.FromDate)
	if err != nil {
		return AssignmentResponse{}, err
	}

	var toDate *time.Time
	if req.ToDate != nil && *req.ToDate != "" {
		parsed, err := time.Parse(dateLayout, *req.ToDate)
		if err != nil {
			return AssignmentResponse{}, err
		}
		toDate = &parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	st, err := qtx.FindByIDAndCompany(ctx, companyID, req.StructureID)
	if err != nil {
		return AssignmentResponse{}, mapRepositoryError(err)
	}
	if st.DocStatus != DocStatusSubmitted {
		return AssignmentResponse{}, structureerrors.ErrStructureNotSubmitted
	}

	assignment := &SalaryStructureAssignment{
		ID:          uuid.New(),
		CompanyID:   company,
		EmployeeID:  employeeID,
		StructureID: structureID,
		BaseSalary:  baseSalary,
		FromDate:    fromDate,
		ToDate:      toDate,
		DocStatus:   DocStatusSubmitted,
		IsActive:    true,
	}

	if err := qtx.CreateAssignment(ctx, assignment); err != nil {
		return AssignmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return AssignmentResponse{}, err
	}

	return mapAssignmentToResponse(*assignment), nil
}

func (s *service) GetAssignments(ctx context.Context, companyID, employeeID string) ([]AssignmentResponse, error) {
	assignments, err := s.repo.FindAssignmentsByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		res[i] = mapAssignmentToResponse(a)
	}
	return res, nil
}

func (s *service) DeactivateAssignment(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DeactivateAssignment(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	return tx.Commit()
}

func (s *service) EngineAssignments(ctx context.Context, companyID, employeeID string) ([]engine.Assignment, error) {
	assignments, err := s.repo.FindAssignmentsByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	// Plan di-cache per structure; beberapa assignment bisa menunjuk structure
	// yang sama dan parsing formula tidak murah.
	plans := make(map[uuid.UUID]engine.Plan)

	res := make([]engine.Assignment, 0, len(assignments))
	for _, a := range assignments {
		plan, ok := plans[a.StructureID]
		if !ok {
			st, err := s.repo.FindByIDAndCompany(ctx, companyID, a.StructureID.String())
			if err != nil {
				return nil, mapRepositoryError(err)
			}
			plan = BuildEnginePlan(*st)
			plans[a.StructureID] = plan
		}

		res = append(res, engine.Assignment{
			Plan:       plan,
			BaseSalary: a.BaseSalary,
			FromDate:   a.FromDate,
			ToDate:     a.ToDate,
			IsActive:   a.IsActive,
			Submitted:  a.DocStatus == DocStatusSubmitted,
		})
	}
	return res, nil
}

func (s *service) ActiveEmployeeIDs(ctx context.Context, companyID string) ([]string, error) {
	ids, err := s.repo.FindActiveAssignmentEmployees(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return ids, nil
}

// BuildEnginePlan menerjemahkan structure tersimpan menjadi plan engine;
// seluruh formula diparse sekali di sini.
func BuildEnginePlan(st SalaryStructure) engine.Plan {
	lines := make([]engine.StructureLine, len(st.Details))
	for i, d := range st.Details {
		lines[i] = engine.StructureLine{
			Component: component.ToEngineComponent(d.Component),
			Amount:    d.Amount,
			Formula:   d.Formula,
			Condition: d.Condition,
		}
	}
	return engine.BuildPlan(st.ID.String(), st.Name, st.HourRate, lines)
}

func mapStructureToResponse(st SalaryStructure) StructureResponse {
	details := make([]DetailLineResponse, len(st.Details))
	for i, d := range st.Details {
		details[i] = DetailLineResponse{
			ID:            d.ID.String(),
			ComponentID:   d.ComponentID.String(),
			ComponentCode: d.Component.Code,
			ComponentName: d.Component.Name,
			ComponentType: d.Component.Type,
			Amount:        d.Amount.String(),
			Formula:       d.Formula,
			Condition:     d.Condition,
		}
	}

	return StructureResponse{
		ID:         st.ID.String(),
		Name:       st.Name,
		PeriodType: st.PeriodType,
		HourRate:   st.HourRate.String(),
		DocStatus:  st.DocStatus,
		IsActive:   st.IsActive,
		Details:    details,
	}
}

func mapAssignmentToResponse(a SalaryStructureAssignment) AssignmentResponse {
	var toDate *string
	if a.ToDate != nil {
		v := a.ToDate.Format(dateLayout)
		toDate = &v
	}

	return AssignmentResponse{
		ID:          a.ID.String(),
		EmployeeID:  a.EmployeeID.String(),
		StructureID: a.StructureID.String(),
		BaseSalary:  a.BaseSalary.String(),
		FromDate:    a.FromDate.Format(dateLayout),
		ToDate:      toDate,
		DocStatus:   a.DocStatus,
		IsActive:    a.IsActive,
	}
}
