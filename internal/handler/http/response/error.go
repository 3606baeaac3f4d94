package response

import (
	"errors"
	"net/http"

	"github.com/paycore-labs/payroll-backend-go/internal/domain/employee"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Request validation errors
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Lifecycle guard failures carry the state that blocked the operation.
	var guardErr *payroll.GuardError
	if errors.As(err, &guardErr) {
		Conflict(w, guardErr.Error(), map[string]string{
			"current_status": string(guardErr.From),
		})
		return
	}

	// Systemic misconfiguration aborts the whole run.
	var configErr *payroll.ConfigurationError
	if errors.As(err, &configErr) {
		BadRequest(w, configErr.Error(), map[string]string{
			"component": configErr.Component,
		})
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrCycleNotFound):
		NotFound(w, "Payroll cycle not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrCycleAlreadyExists):
		Conflict(w, "Payroll cycle already exists for this period", nil)
	case errors.Is(err, payroll.ErrPayslipAlreadyPaid):
		Conflict(w, "Payslip already paid", nil)
	case errors.Is(err, payroll.ErrVersionConflict):
		Conflict(w, "Record was modified concurrently, reload and retry", nil)
	case errors.Is(err, payroll.ErrCycleLocked):
		Conflict(w, "Payroll cycle is locked", nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
