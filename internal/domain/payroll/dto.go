package payroll

import (
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CYCLE DTOs ==========

type CreateCycleRequest struct {
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Frequency string  `json:"frequency,omitempty"` // defaults to "monthly"
	PayDate   *string `json:"pay_date,omitempty"`  // "2006-01-02", defaults to period end
}

func (r *CreateCycleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a plausible year"})
	}
	if r.Frequency != "" {
		switch CycleFrequency(r.Frequency) {
		case FrequencyMonthly, FrequencyBiweekly, FrequencyWeekly:
		default:
			errs = append(errs, validator.ValidationError{Field: "frequency", Message: "must be 'monthly', 'biweekly' or 'weekly'"})
		}
	}
	if r.PayDate != nil {
		if _, ok := validator.IsValidDate(*r.PayDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must be formatted as YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CycleResponse struct {
	ID               string                     `json:"id"`
	CompanyID        string                     `json:"company_id"`
	Month            int                        `json:"month"`
	Year             int                        `json:"year"`
	Frequency        string                     `json:"frequency"`
	StartDate        string                     `json:"start_date"`
	EndDate          string                     `json:"end_date"`
	PayDate          string                     `json:"pay_date"`
	Status           string                     `json:"status"`
	TotalEmployees   int                        `json:"total_employees"`
	TotalGrossSalary decimal.Decimal            `json:"total_gross_salary"`
	TotalDeductions  decimal.Decimal            `json:"total_deductions"`
	TotalNetSalary   decimal.Decimal            `json:"total_net_salary"`
	CostsByEntity    map[string]decimal.Decimal `json:"costs_by_entity,omitempty"`
}

type UpdateCycleStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateCycleStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status == "" {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "is required"})
	} else if !CycleStatus(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "unknown cycle status"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CycleFilter struct {
	Year   int
	Status string
	Page   int
	Limit  int
}

type ListCyclesResponse struct {
	Data       []CycleResponse `json:"data"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}

// ========== PROCESSING DTOs ==========

// ProcessingSummary reports what one ProcessCycle run did.
type ProcessingSummary struct {
	NewPayslipsGenerated    int `json:"new_payslips_generated"`
	ExistingPayslipsSkipped int `json:"existing_payslips_skipped"`
	TotalPayslips           int `json:"total_payslips"`
}

type ProcessCycleResponse struct {
	Cycle    CycleResponse     `json:"cycle"`
	Payslips []PayslipResponse `json:"payslips"`
	Summary  ProcessingSummary `json:"processing_summary"`
	Errors   []RowError        `json:"errors,omitempty"`
	Warnings []Warning         `json:"warnings,omitempty"`
}

// ========== PAYSLIP DTOs ==========

type PayslipLineResponse struct {
	Type   string          `json:"type"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type CostAllocationResponse struct {
	EntityID  string          `json:"entity_id"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

type PayslipResponse struct {
	ID               string                   `json:"id"`
	CycleID          string                   `json:"cycle_id"`
	EmployeeID       string                   `json:"employee_id"`
	EmployeeName     string                   `json:"employee_name,omitempty"`
	GrossSalary      decimal.Decimal          `json:"gross_salary"`
	StandardGross    decimal.Decimal          `json:"standard_gross"`
	TotalDeductions  decimal.Decimal          `json:"total_deductions"`
	TotalTax         decimal.Decimal          `json:"total_tax"`
	TotalStatutory   decimal.Decimal          `json:"total_statutory"`
	NetSalary        decimal.Decimal          `json:"net_salary"`
	Allocations      []CostAllocationResponse `json:"cost_allocations,omitempty"`
	Lines            []PayslipLineResponse    `json:"lines,omitempty"`
	IsPaid           bool                     `json:"is_paid"`
	PaidAt           *string                  `json:"paid_at,omitempty"`
	PaymentReference *string                  `json:"payment_reference,omitempty"`
	Version          int64                    `json:"version"`
}

type PayPayslipRequest struct {
	PaymentReference *string `json:"payment_reference,omitempty"`
	// Version is the payslip version the caller last observed; the pay
	// is rejected with ErrVersionConflict if the record moved on.
	Version int64 `json:"version"`
}

func (r *PayPayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Version <= 0 {
		errs = append(errs, validator.ValidationError{Field: "version", Message: "is required"})
	}
	if r.PaymentReference != nil && validator.IsEmpty(*r.PaymentReference) {
		errs = append(errs, validator.ValidationError{Field: "payment_reference", Message: "must not be blank"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
