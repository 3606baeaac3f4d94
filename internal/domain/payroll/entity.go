package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// CycleFrequency enum
type CycleFrequency string

const (
	FrequencyMonthly  CycleFrequency = "monthly"
	FrequencyBiweekly CycleFrequency = "biweekly"
	FrequencyWeekly   CycleFrequency = "weekly"
)

// Cycle is one payroll run scoped to a pay period. It owns at most one
// payslip per covered employee and carries the aggregate totals across
// them.
type Cycle struct {
	ID               string
	CompanyID        string
	Month            int
	Year             int
	Frequency        CycleFrequency
	StartDate        time.Time
	EndDate          time.Time
	PayDate          time.Time
	Status           CycleStatus
	TotalEmployees   int
	TotalGrossSalary decimal.Decimal
	TotalDeductions  decimal.Decimal
	TotalNetSalary   decimal.Decimal
	CostsByEntity    map[string]decimal.Decimal
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LineType classifies an itemized payslip line.
type LineType string

const (
	LineBasic      LineType = "basic"
	LineAllowance  LineType = "allowance"
	LineDeduction  LineType = "deduction"
	LineBonus      LineType = "bonus"
	LineAdjustment LineType = "adjustment"
	LineAttendance LineType = "attendance"
)

// PayslipLine is one itemized contribution to a payslip. Negative
// amounts reduce net pay.
type PayslipLine struct {
	Type     LineType
	Label    string
	Amount   decimal.Decimal
	SourceID string
}

// CostAllocation is the share of a payslip's net pay charged to one
// project or building.
type CostAllocation struct {
	EntityID  string
	NetAmount decimal.Decimal
}

// Payslip is the computed, persisted pay record for one employee within
// one cycle.
type Payslip struct {
	ID               string
	CycleID          string
	CompanyID        string
	EmployeeID       string
	EmployeeName     string
	GrossSalary      decimal.Decimal
	StandardGross    decimal.Decimal
	TotalDeductions  decimal.Decimal
	TotalTax         decimal.Decimal
	TotalStatutory   decimal.Decimal
	NetSalary        decimal.Decimal
	Allocations      []CostAllocation
	Lines            []PayslipLine
	IsPaid           bool
	PaidAt           *time.Time
	PaymentReference *string
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AdjustmentType enum
type AdjustmentType string

const (
	AdjustmentEarning   AdjustmentType = "earning"
	AdjustmentDeduction AdjustmentType = "deduction"
)

// AdjustmentStatus enum
type AdjustmentStatus string

const (
	AdjustmentStatusActive    AdjustmentStatus = "active"
	AdjustmentStatusInactive  AdjustmentStatus = "inactive"
	AdjustmentStatusCancelled AdjustmentStatus = "cancelled"
)

// SalaryAdjustment is a one-time or recurring earning/deduction applied
// on top of the salary structure. A non-recurring adjustment is stamped
// with the cycle that consumed it so it never applies twice.
type SalaryAdjustment struct {
	ID                string
	CompanyID         string
	EmployeeID        string
	Type              AdjustmentType
	Amount            decimal.Decimal
	Category          string
	Status            AdjustmentStatus
	DateAdded         time.Time
	PayrollMonth      *string // "YYYY-MM", nil = next matching cycle
	IsRecurring       bool
	ConsumedByCycleID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AppliesTo reports whether the adjustment is in scope for the given
// cycle.
func (a SalaryAdjustment) AppliesTo(c Cycle) bool {
	if a.Status != AdjustmentStatusActive {
		return false
	}
	if !a.IsRecurring && a.ConsumedByCycleID != nil && *a.ConsumedByCycleID != c.ID {
		return false
	}
	if a.PayrollMonth != nil {
		return *a.PayrollMonth == c.PeriodKey()
	}
	return !a.DateAdded.After(c.EndDate)
}

// BonusStatus enum
type BonusStatus string

const (
	BonusStatusPending  BonusStatus = "pending"
	BonusStatusApproved BonusStatus = "approved"
	BonusStatusRejected BonusStatus = "rejected"
	BonusStatusPaid     BonusStatus = "paid"
)

// BonusRecord is an approved earning granted outside the salary
// structure, cycle-scoped or recurring.
type BonusRecord struct {
	ID            string
	CompanyID     string
	EmployeeID    string
	Amount        decimal.Decimal
	Category      string
	Status        BonusStatus
	EffectiveDate time.Time
	PayrollMonth  *string
	IsRecurring   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AppliesTo reports whether the bonus is in scope for the given cycle.
func (b BonusRecord) AppliesTo(c Cycle) bool {
	if b.Status != BonusStatusApproved {
		return false
	}
	if b.PayrollMonth != nil {
		return *b.PayrollMonth == c.PeriodKey()
	}
	if b.IsRecurring {
		return !b.EffectiveDate.After(c.EndDate)
	}
	return !b.EffectiveDate.Before(c.StartDate) && !b.EffectiveDate.After(c.EndDate)
}

// PeriodKey returns the cycle period as "YYYY-MM".
func (c Cycle) PeriodKey() string {
	return time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
