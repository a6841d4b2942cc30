package componenterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrComponentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary component not found",
		http.StatusNotFound,
	)

	ErrComponentCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A salary component with this code already exists for the company",
		http.StatusConflict,
	)

	ErrInvalidFormula = apperror.New(
		apperror.CodeInvalidInput,
		"Formula or condition could not be parsed",
		http.StatusBadRequest,
	)
)
