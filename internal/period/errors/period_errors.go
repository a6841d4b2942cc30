package perioderrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll period not found",
		http.StatusNotFound,
	)

	ErrPeriodAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A payroll period with these dates already exists",
		http.StatusConflict,
	)

	ErrInvalidPeriodRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)

	ErrPeriodClosed = apperror.New(
		apperror.CodeInvalidState,
		"Payroll period is closed",
		http.StatusUnprocessableEntity,
	)
)
