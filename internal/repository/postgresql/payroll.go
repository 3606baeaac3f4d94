package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== CYCLES ==========

const cycleColumns = `
	id, company_id, month, year, frequency, start_date, end_date, pay_date,
	status, total_employees, total_gross_salary, total_deductions,
	total_net_salary, costs_by_entity, version, created_at, updated_at
`

func scanCycle(row pgx.Row) (payroll.Cycle, error) {
	var c payroll.Cycle
	var status, frequency string
	var costsBytes []byte

	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Month, &c.Year, &frequency, &c.StartDate, &c.EndDate, &c.PayDate,
		&status, &c.TotalEmployees, &c.TotalGrossSalary, &c.TotalDeductions,
		&c.TotalNetSalary, &costsBytes, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return payroll.Cycle{}, err
	}

	c.Status = payroll.CycleStatus(status)
	c.Frequency = payroll.CycleFrequency(frequency)
	if len(costsBytes) > 0 {
		_ = json.Unmarshal(costsBytes, &c.CostsByEntity)
	}
	return c, nil
}

func (r *payrollRepository) CreateCycle(ctx context.Context, cycle payroll.Cycle) (payroll.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	costsJSON, _ := json.Marshal(cycle.CostsByEntity)

	query := `
		INSERT INTO payroll_cycles (
			id, company_id, month, year, frequency, start_date, end_date, pay_date,
			status, total_employees, total_gross_salary, total_deductions,
			total_net_salary, costs_by_entity, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + cycleColumns

	created, err := scanCycle(q.QueryRow(ctx, query,
		cycle.ID, cycle.CompanyID, cycle.Month, cycle.Year, string(cycle.Frequency),
		cycle.StartDate, cycle.EndDate, cycle.PayDate,
		string(cycle.Status), cycle.TotalEmployees, cycle.TotalGrossSalary, cycle.TotalDeductions,
		cycle.TotalNetSalary, costsJSON, cycle.Version,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_cycle_period") {
			return payroll.Cycle{}, payroll.ErrCycleAlreadyExists
		}
		return payroll.Cycle{}, fmt.Errorf("failed to create payroll cycle: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetCycleByID(ctx context.Context, id string, companyID string) (payroll.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + cycleColumns + ` FROM payroll_cycles WHERE id = $1 AND company_id = $2`

	cycle, err := scanCycle(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Cycle{}, payroll.ErrCycleNotFound
		}
		return payroll.Cycle{}, fmt.Errorf("failed to get payroll cycle: %w", err)
	}

	return cycle, nil
}

func (r *payrollRepository) GetCycleByPeriod(ctx context.Context, companyID string, month, year int, frequency payroll.CycleFrequency) (payroll.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + cycleColumns + `
		FROM payroll_cycles
		WHERE company_id = $1 AND month = $2 AND year = $3 AND frequency = $4
	`

	cycle, err := scanCycle(q.QueryRow(ctx, query, companyID, month, year, string(frequency)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Cycle{}, payroll.ErrCycleNotFound
		}
		return payroll.Cycle{}, fmt.Errorf("failed to get payroll cycle by period: %w", err)
	}

	return cycle, nil
}

func (r *payrollRepository) ListCycles(ctx context.Context, companyID string, filter payroll.CycleFilter) ([]payroll.Cycle, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM payroll_cycles WHERE company_id = $1`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Year > 0 {
		baseQuery += fmt.Sprintf(" AND year = $%d", argIdx)
		args = append(args, filter.Year)
		argIdx++
	}
	if filter.Status != "" {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll cycles: %w", err)
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s %s
		ORDER BY year DESC, month DESC
		LIMIT $%d OFFSET $%d
	`, cycleColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll cycles: %w", err)
	}
	defer rows.Close()

	var cycles []payroll.Cycle
	for rows.Next() {
		cycle, err := scanCycle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll cycle: %w", err)
		}
		cycles = append(cycles, cycle)
	}

	return cycles, totalCount, nil
}

func (r *payrollRepository) UpdateCycle(ctx context.Context, cycle payroll.Cycle) (payroll.Cycle, error) {
	q := GetQuerier(ctx, r.db)

	costsJSON, _ := json.Marshal(cycle.CostsByEntity)

	query := `
		UPDATE payroll_cycles
		SET status = $4, total_employees = $5, total_gross_salary = $6,
			total_deductions = $7, total_net_salary = $8, costs_by_entity = $9,
			pay_date = $10, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND version = $3
		RETURNING ` + cycleColumns

	updated, err := scanCycle(q.QueryRow(ctx, query,
		cycle.ID, cycle.CompanyID, cycle.Version,
		string(cycle.Status), cycle.TotalEmployees, cycle.TotalGrossSalary,
		cycle.TotalDeductions, cycle.TotalNetSalary, costsJSON, cycle.PayDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing row from a stale version.
			var exists bool
			checkErr := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payroll_cycles WHERE id = $1 AND company_id = $2)`, cycle.ID, cycle.CompanyID).Scan(&exists)
			if checkErr == nil && exists {
				return payroll.Cycle{}, payroll.ErrVersionConflict
			}
			return payroll.Cycle{}, payroll.ErrCycleNotFound
		}
		return payroll.Cycle{}, fmt.Errorf("failed to update payroll cycle: %w", err)
	}

	return updated, nil
}

// ========== PAYSLIPS ==========

const payslipColumns = `
	id, cycle_id, company_id, employee_id, employee_name, gross_salary,
	standard_gross, total_deductions, total_tax, total_statutory, net_salary,
	cost_allocations, lines, is_paid, paid_at, payment_reference, version,
	created_at, updated_at
`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	var allocationsBytes, linesBytes []byte

	err := row.Scan(
		&p.ID, &p.CycleID, &p.CompanyID, &p.EmployeeID, &p.EmployeeName, &p.GrossSalary,
		&p.StandardGross, &p.TotalDeductions, &p.TotalTax, &p.TotalStatutory, &p.NetSalary,
		&allocationsBytes, &linesBytes, &p.IsPaid, &p.PaidAt, &p.PaymentReference, &p.Version,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}

	_ = json.Unmarshal(allocationsBytes, &p.Allocations)
	_ = json.Unmarshal(linesBytes, &p.Lines)
	return p, nil
}

func (r *payrollRepository) CreatePayslips(ctx context.Context, payslips []payroll.Payslip) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslips (
			id, cycle_id, company_id, employee_id, employee_name, gross_salary,
			standard_gross, total_deductions, total_tax, total_statutory, net_salary,
			cost_allocations, lines, is_paid, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	for _, p := range payslips {
		allocationsJSON, _ := json.Marshal(p.Allocations)
		linesJSON, _ := json.Marshal(p.Lines)

		_, err := q.Exec(ctx, query,
			p.ID, p.CycleID, p.CompanyID, p.EmployeeID, p.EmployeeName, p.GrossSalary,
			p.StandardGross, p.TotalDeductions, p.TotalTax, p.TotalStatutory, p.NetSalary,
			allocationsJSON, linesJSON, p.IsPaid, p.Version,
		)
		if err != nil {
			if strings.Contains(err.Error(), "uk_payslip_cycle_employee") {
				return fmt.Errorf("payslip already exists for employee %s in cycle %s: %w", p.EmployeeID, p.CycleID, err)
			}
			return fmt.Errorf("failed to create payslip: %w", err)
		}
	}

	return nil
}

func (r *payrollRepository) GetPayslipByID(ctx context.Context, id string, companyID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + ` FROM payslips WHERE id = $1 AND company_id = $2`

	payslip, err := scanPayslip(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return payslip, nil
}

func (r *payrollRepository) GetPayslipsByCycle(ctx context.Context, cycleID string, companyID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips
		WHERE cycle_id = $1 AND company_id = $2
		ORDER BY employee_name, employee_id
	`

	rows, err := q.Query(ctx, query, cycleID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		payslip, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, payslip)
	}

	return payslips, nil
}

func (r *payrollRepository) MarkPayslipPaid(ctx context.Context, id string, companyID string, version int64, paymentReference *string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payslips
		SET is_paid = true, paid_at = NOW(), payment_reference = $4,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND version = $3 AND is_paid = false
		RETURNING ` + payslipColumns

	paid, err := scanPayslip(q.QueryRow(ctx, query, id, companyID, version, paymentReference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Work out which precondition failed.
			var isPaid bool
			checkErr := q.QueryRow(ctx, `SELECT is_paid FROM payslips WHERE id = $1 AND company_id = $2`, id, companyID).Scan(&isPaid)
			if checkErr != nil {
				return payroll.Payslip{}, payroll.ErrPayslipNotFound
			}
			if isPaid {
				return payroll.Payslip{}, payroll.ErrPayslipAlreadyPaid
			}
			return payroll.Payslip{}, payroll.ErrVersionConflict
		}
		return payroll.Payslip{}, fmt.Errorf("failed to mark payslip paid: %w", err)
	}

	return paid, nil
}

// ========== BONUSES AND ADJUSTMENTS ==========

func (r *payrollRepository) GetApprovedBonuses(ctx context.Context, companyID string, month, year int) ([]payroll.BonusRecord, error) {
	q := GetQuerier(ctx, r.db)

	// Fetch broadly; exact cycle scoping happens in the processor.
	query := `
		SELECT id, company_id, employee_id, amount, category, status,
			   effective_date, payroll_month, is_recurring, created_at, updated_at
		FROM bonus_records
		WHERE company_id = $1 AND status = 'approved'
			AND (payroll_month = $2 OR (payroll_month IS NULL AND effective_date <= $3))
	`

	periodEnd := periodEndDate(month, year)
	rows, err := q.Query(ctx, query, companyID, periodKey(month, year), periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to get bonuses: %w", err)
	}
	defer rows.Close()

	var bonuses []payroll.BonusRecord
	for rows.Next() {
		var b payroll.BonusRecord
		var status string
		if err := rows.Scan(
			&b.ID, &b.CompanyID, &b.EmployeeID, &b.Amount, &b.Category, &status,
			&b.EffectiveDate, &b.PayrollMonth, &b.IsRecurring, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bonus record: %w", err)
		}
		b.Status = payroll.BonusStatus(status)
		bonuses = append(bonuses, b)
	}

	return bonuses, nil
}

func (r *payrollRepository) GetActiveAdjustments(ctx context.Context, companyID string, month, year int) ([]payroll.SalaryAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, type, amount, category, status,
			   date_added, payroll_month, is_recurring, consumed_by_cycle_id,
			   created_at, updated_at
		FROM salary_adjustments
		WHERE company_id = $1 AND status = 'active'
			AND (payroll_month = $2 OR (payroll_month IS NULL AND date_added <= $3))
	`

	periodEnd := periodEndDate(month, year)
	rows, err := q.Query(ctx, query, companyID, periodKey(month, year), periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to get adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []payroll.SalaryAdjustment
	for rows.Next() {
		var a payroll.SalaryAdjustment
		var adjType, status string
		if err := rows.Scan(
			&a.ID, &a.CompanyID, &a.EmployeeID, &adjType, &a.Amount, &a.Category, &status,
			&a.DateAdded, &a.PayrollMonth, &a.IsRecurring, &a.ConsumedByCycleID,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary adjustment: %w", err)
		}
		a.Type = payroll.AdjustmentType(adjType)
		a.Status = payroll.AdjustmentStatus(status)
		adjustments = append(adjustments, a)
	}

	return adjustments, nil
}

func (r *payrollRepository) MarkAdjustmentsConsumed(ctx context.Context, companyID string, ids []string, cycleID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_adjustments
		SET consumed_by_cycle_id = $3, updated_at = NOW()
		WHERE id = ANY($2) AND company_id = $1 AND is_recurring = false
	`

	_, err := q.Exec(ctx, query, companyID, ids, cycleID)
	if err != nil {
		return fmt.Errorf("failed to mark adjustments consumed: %w", err)
	}

	return nil
}

// ========== HELPERS ==========

func periodKey(month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func periodEndDate(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}
