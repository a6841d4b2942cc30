package structure

import (
	"errors"
	"strings"

	structureerrors "go-payroll/internal/structure/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return structureerrors.ErrStructureNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "idx_structure_company_name":
			return structureerrors.ErrStructureNameAlreadyExists
		case "idx_assignment_employee_from":
			return structureerrors.ErrAssignmentAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "idx_structure_company_name") {
			return structureerrors.ErrStructureNameAlreadyExists
		}
		if strings.Contains(errMsg, "idx_assignment_employee_from") {
			return structureerrors.ErrAssignmentAlreadyExists
		}
	}

	return err
}
