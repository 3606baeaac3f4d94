package payroll

import (
	"github.com/google/uuid"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/attendance"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/employee"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ProcessInput is the full snapshot a cycle run works on. The processor
// never touches a store: the service loads these and persists the
// result atomically.
type ProcessInput struct {
	Cycle       payroll.Cycle
	Employees   []employee.Employee
	Bonuses     []payroll.BonusRecord
	Adjustments []payroll.SalaryAdjustment
	Attendance  []attendance.Record
	Existing    []payroll.Payslip
	Policy      ProrationPolicy
}

// ProcessResult is the outcome of one cycle run. NewPayslips holds only
// payslips generated by this run; Cycle carries aggregates recomputed
// over existing and new payslips together.
type ProcessResult struct {
	Cycle                 payroll.Cycle
	NewPayslips           []payroll.Payslip
	Errors                []payroll.RowError
	Warnings              []payroll.Warning
	Summary               payroll.ProcessingSummary
	ConsumedAdjustmentIDs []string
}

// ProcessCycle runs one payroll batch over the roster snapshot.
//
// Reprocessing is "new employees only": an employee with an existing
// payslip in the cycle is skipped and their payslip (including its
// is_paid flag) is never touched. Per-employee failures are collected
// and do not abort the batch. The cycle advances Draft -> Review on the
// first run that leaves it with at least one payslip; a later status is
// never regressed.
func ProcessCycle(in ProcessInput) (ProcessResult, error) {
	cycle := in.Cycle
	switch cycle.Status {
	case payroll.CycleStatusLocked, payroll.CycleStatusCancelled, payroll.CycleStatusPaid:
		return ProcessResult{}, &payroll.GuardError{
			Op: "process", From: cycle.Status, Reason: "cycle no longer accepts payslips",
		}
	}

	policy := in.Policy
	if policy == nil {
		policy = CalendarDaysPolicy{}
	}

	covered := make(map[string]bool, len(in.Existing))
	for _, p := range in.Existing {
		covered[p.EmployeeID] = true
	}

	bonusesByEmployee := make(map[string][]payroll.BonusRecord)
	for _, b := range in.Bonuses {
		if b.AppliesTo(cycle) {
			bonusesByEmployee[b.EmployeeID] = append(bonusesByEmployee[b.EmployeeID], b)
		}
	}
	adjustmentsByEmployee := make(map[string][]payroll.SalaryAdjustment)
	for _, a := range in.Adjustments {
		if a.AppliesTo(cycle) {
			adjustmentsByEmployee[a.EmployeeID] = append(adjustmentsByEmployee[a.EmployeeID], a)
		}
	}
	attendanceByEmployee := make(map[string][]attendance.Record)
	for _, rec := range in.Attendance {
		attendanceByEmployee[rec.EmployeeID] = append(attendanceByEmployee[rec.EmployeeID], rec)
	}

	var result ProcessResult
	skipped := 0
	for _, emp := range in.Employees {
		if !emp.IsActive() {
			continue
		}
		if covered[emp.ID] {
			skipped++
			continue
		}

		proration := Prorate(cycle, attendanceByEmployee[emp.ID], policy)
		adjustments := adjustmentsByEmployee[emp.ID]

		resolved, err := ResolveSalary(ResolveInput{
			Employee:    emp,
			Bonuses:     bonusesByEmployee[emp.ID],
			Adjustments: adjustments,
			AttendanceAdjustment: AttendanceAdjustment(
				standardGrossOf(emp), proration,
			),
		})
		if err != nil {
			if rowErr, ok := err.(payroll.RowError); ok {
				result.Errors = append(result.Errors, rowErr)
			} else {
				result.Errors = append(result.Errors, payroll.RowError{
					EmployeeID: emp.ID,
					Kind:       payroll.RowErrorConfiguration,
					Message:    err.Error(),
				})
			}
			continue
		}
		result.Warnings = append(result.Warnings, resolved.Warnings...)

		allocations, warning := Allocate(resolved.NetSalary, emp, cycle)
		if warning != nil {
			result.Warnings = append(result.Warnings, *warning)
		}

		for _, adj := range adjustments {
			if !adj.IsRecurring {
				result.ConsumedAdjustmentIDs = append(result.ConsumedAdjustmentIDs, adj.ID)
			}
		}

		result.NewPayslips = append(result.NewPayslips, payroll.Payslip{
			ID:              uuid.Must(uuid.NewV7()).String(),
			CycleID:         cycle.ID,
			CompanyID:       cycle.CompanyID,
			EmployeeID:      emp.ID,
			EmployeeName:    emp.FullName,
			GrossSalary:     resolved.GrossSalary,
			StandardGross:   resolved.StandardGross,
			TotalDeductions: resolved.DeductionTotal.Add(resolved.DeductionAdjustments),
			TotalTax:        resolved.TotalTax,
			TotalStatutory:  resolved.TotalStatutory,
			NetSalary:       resolved.NetSalary,
			Allocations:     allocations,
			Lines:           resolved.Lines,
			Version:         1,
		})
	}

	all := make([]payroll.Payslip, 0, len(in.Existing)+len(result.NewPayslips))
	all = append(all, in.Existing...)
	all = append(all, result.NewPayslips...)

	totalGross := decimal.Zero
	totalDeductions := decimal.Zero
	totalNet := decimal.Zero
	costsByEntity := make(map[string]decimal.Decimal)
	for _, p := range all {
		totalGross = totalGross.Add(p.GrossSalary)
		totalDeductions = totalDeductions.Add(p.TotalDeductions)
		totalNet = totalNet.Add(p.NetSalary)
		for _, a := range p.Allocations {
			costsByEntity[a.EntityID] = costsByEntity[a.EntityID].Add(a.NetAmount)
		}
	}

	cycle.TotalEmployees = len(all)
	cycle.TotalGrossSalary = round2(totalGross)
	cycle.TotalDeductions = round2(totalDeductions)
	cycle.TotalNetSalary = round2(totalNet)
	cycle.CostsByEntity = costsByEntity

	if cycle.Status == payroll.CycleStatusDraft && len(all) > 0 {
		cycle.Status = payroll.CycleStatusReview
	}

	result.Cycle = cycle
	result.Summary = payroll.ProcessingSummary{
		NewPayslipsGenerated:    len(result.NewPayslips),
		ExistingPayslipsSkipped: skipped,
		TotalPayslips:           len(all),
	}
	return result, nil
}

// standardGrossOf recomputes basic + recurring allowances for proration
// before full resolution runs.
func standardGrossOf(emp employee.Employee) decimal.Decimal {
	total := emp.BasicSalary
	for _, a := range emp.Allowances {
		if isBasicAlias(a.Name) {
			continue
		}
		if a.IsPercentage {
			total = total.Add(emp.BasicSalary.Mul(a.Amount).Div(hundred))
		} else {
			total = total.Add(a.Amount)
		}
	}
	return round2(total)
}
