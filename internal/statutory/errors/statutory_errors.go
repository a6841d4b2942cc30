package statutoryerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amount or rate is not a valid decimal number",
		http.StatusBadRequest,
	)

	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"effective_to must be after effective_from",
		http.StatusBadRequest,
	)

	ErrSlabOverlap = apperror.New(
		apperror.CodeConflict,
		"Tax slab range overlaps an existing active slab",
		http.StatusConflict,
	)
)
