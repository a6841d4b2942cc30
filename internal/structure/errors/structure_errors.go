package structureerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary structure not found",
		http.StatusNotFound,
	)

	ErrStructureNameAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A salary structure with this name already exists for the company",
		http.StatusConflict,
	)

	ErrStructureSubmitted = apperror.New(
		apperror.CodeInvalidState,
		"A submitted salary structure can no longer be modified",
		http.StatusUnprocessableEntity,
	)

	ErrStructureNotSubmitted = apperror.New(
		apperror.CodeInvalidState,
		"Salary structure must be submitted before it can be assigned",
		http.StatusUnprocessableEntity,
	)

	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary structure assignment not found",
		http.StatusNotFound,
	)

	ErrAssignmentAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An assignment for this employee and from_date already exists",
		http.StatusConflict,
	)
)
