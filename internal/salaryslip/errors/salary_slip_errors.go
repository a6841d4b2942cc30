package salarysliperrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrSlipNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary slip not found",
		http.StatusNotFound,
	)

	// Precondition calculation: tanpa assignment aktif perhitungan ditolak,
	// tidak dihitung diam-diam dengan base nol.
	ErrNoActiveAssignment = apperror.New(
		apperror.CodeInvalidState,
		"Employee has no active salary structure assignment covering the period",
		http.StatusUnprocessableEntity,
	)

	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"Employee does not belong to this company",
		http.StatusBadRequest,
	)

	ErrInvalidPeriodRange = apperror.New(
		apperror.CodeInvalidInput,
		"Period end date is before start date",
		http.StatusBadRequest,
	)

	ErrPeriodClosed = apperror.New(
		apperror.CodeInvalidState,
		"Payroll period is closed",
		http.StatusUnprocessableEntity,
	)

	ErrApproveOnlyCalculated = apperror.New(
		apperror.CodeInvalidState,
		"Salary slip can only be approved while status is CALCULATED",
		http.StatusUnprocessableEntity,
	)

	ErrPayOnlyApproved = apperror.New(
		apperror.CodeInvalidState,
		"Salary slip can only be marked as paid while status is APPROVED",
		http.StatusUnprocessableEntity,
	)

	ErrRecalculateLocked = apperror.New(
		apperror.CodeInvalidState,
		"Salary slip is approved or paid and can no longer be recalculated",
		http.StatusUnprocessableEntity,
	)

	ErrDeleteLocked = apperror.New(
		apperror.CodeInvalidState,
		"Salary slip can only be deleted while status is DRAFT or CALCULATED",
		http.StatusUnprocessableEntity,
	)

	ErrPayslipNotGenerated = apperror.New(
		apperror.CodeNotFound,
		"Payslip document has not been generated yet",
		http.StatusNotFound,
	)
)
