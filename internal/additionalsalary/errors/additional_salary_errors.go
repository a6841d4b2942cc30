package additionalsalaryerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrAdditionalSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Additional salary entry not found",
		http.StatusNotFound,
	)

	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Additional salary entry cannot change to the requested status",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amount is not a valid decimal number",
		http.StatusBadRequest,
	)
)
