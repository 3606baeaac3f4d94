package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrCycleNotFound      = errors.New("payroll cycle not found")
	ErrCycleAlreadyExists = errors.New("payroll cycle already exists for this period")
	ErrCycleLocked        = errors.New("payroll cycle is locked, cannot modify")
	ErrPayslipNotFound    = errors.New("payslip not found")
	ErrPayslipAlreadyPaid = errors.New("payslip already paid")
	ErrVersionConflict    = errors.New("record was modified concurrently, retry")
	ErrInvalidPeriod      = errors.New("invalid payroll period")
)

// GuardError is returned when a lifecycle operation is attempted from a
// state that does not permit it. The operation performs no mutation.
type GuardError struct {
	Op     string
	From   CycleStatus
	To     CycleStatus
	Reason string
}

func (e *GuardError) Error() string {
	if e.To != "" {
		return fmt.Sprintf("%s: cannot move cycle from %s to %s: %s", e.Op, e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("%s: not allowed while cycle is %s: %s", e.Op, e.From, e.Reason)
}

// ConfigurationError marks a systemic misconfiguration that is fatal to
// the batch (as opposed to a single employee's row).
type ConfigurationError struct {
	Component string
	Message   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

// RowErrorKind classifies a per-employee processing failure.
type RowErrorKind string

const (
	RowErrorValidation    RowErrorKind = "validation"
	RowErrorConfiguration RowErrorKind = "configuration"
)

// RowError is a per-employee computation failure. It is collected in the
// batch result and never aborts the run.
type RowError struct {
	EmployeeID string       `json:"employee_id"`
	Kind       RowErrorKind `json:"kind"`
	Message    string       `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("employee %s: %s error: %s", e.EmployeeID, e.Kind, e.Message)
}

// Warning is a non-fatal batch finding surfaced for review.
type Warning struct {
	Code       string `json:"code"`
	EmployeeID string `json:"employee_id,omitempty"`
	Message    string `json:"message"`
}

const (
	WarningReconciliation = "reconciliation"
	WarningNegativeNet    = "negative_net"
	WarningNegativeBasic  = "negative_basic"
)
