package payroll

import "context"

// PayrollRepository defines data access for cycles, payslips, bonuses
// and adjustments. All methods include companyID to prevent
// cross-company data access.
type PayrollRepository interface {
	// Cycles
	CreateCycle(ctx context.Context, cycle Cycle) (Cycle, error)
	GetCycleByID(ctx context.Context, id string, companyID string) (Cycle, error)
	GetCycleByPeriod(ctx context.Context, companyID string, month, year int, frequency CycleFrequency) (Cycle, error)
	ListCycles(ctx context.Context, companyID string, filter CycleFilter) ([]Cycle, int64, error)
	// UpdateCycle persists the aggregate and bumps its version. Returns
	// ErrVersionConflict when cycle.Version is stale.
	UpdateCycle(ctx context.Context, cycle Cycle) (Cycle, error)

	// Payslips
	CreatePayslips(ctx context.Context, payslips []Payslip) error
	GetPayslipByID(ctx context.Context, id string, companyID string) (Payslip, error)
	GetPayslipsByCycle(ctx context.Context, cycleID string, companyID string) ([]Payslip, error)
	// MarkPayslipPaid flips is_paid with an optimistic version check.
	MarkPayslipPaid(ctx context.Context, id string, companyID string, version int64, paymentReference *string) (Payslip, error)

	// Bonuses and adjustments (read side is external; consumption stamp is ours)
	GetApprovedBonuses(ctx context.Context, companyID string, month, year int) ([]BonusRecord, error)
	GetActiveAdjustments(ctx context.Context, companyID string, month, year int) ([]SalaryAdjustment, error)
	MarkAdjustmentsConsumed(ctx context.Context, companyID string, ids []string, cycleID string) error
}
