package salaryslip

import (
	"errors"
	"net/http"
	"strings"

	salarysliperrors "go-payroll/internal/salaryslip/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var errSlipAlreadyExists = apperror.New(
	apperror.CodeConflict,
	"Salary slip already exists for this employee and period",
	http.StatusConflict,
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salarysliperrors.ErrSlipNotFound
	}
	if isUniqueSlipViolation(err) {
		return errSlipAlreadyExists
	}
	return err
}

// Dua request paralel bisa lolos pemeriksaan FindByEmployeeAndPeriod yang sama;
// unique index yang menjadi penentu akhir.
func isUniqueSlipViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_slip_period_employee"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_slip_period_employee")
}
