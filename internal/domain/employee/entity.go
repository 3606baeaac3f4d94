package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the roster snapshot the payroll engine consumes. The record
// is owned by the external HR store and read-only here.
type Employee struct {
	ID               string
	CompanyID        string
	EmployeeCode     string
	FullName         string
	EmploymentStatus EmploymentStatus
	BasicSalary      decimal.Decimal
	Allowances       []SalaryComponent
	Deductions       []SalaryComponent
	CostSplits       []CostSplit
	HireDate         time.Time
	ResignationDate  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// SalaryComponent is a recurring allowance or deduction on the salary
// structure. Percentage allowances are expressed against basic salary,
// percentage deductions against standard gross.
type SalaryComponent struct {
	Name         string
	Amount       decimal.Decimal
	IsPercentage bool
}

// CostSplit declares what share of an employee's pay is charged to a
// project or building. Percentages are stored as entered; they may not
// sum to 100 and are renormalized at computation time.
type CostSplit struct {
	EntityID   string
	Percentage decimal.Decimal
	StartDate  *time.Time
	EndDate    *time.Time
}

// ActiveWithin reports whether the split overlaps the given period.
func (c CostSplit) ActiveWithin(start, end time.Time) bool {
	if c.StartDate != nil && c.StartDate.After(end) {
		return false
	}
	if c.EndDate != nil && c.EndDate.Before(start) {
		return false
	}
	return true
}
