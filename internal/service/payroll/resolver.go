package payroll

import (
	"fmt"
	"strings"

	"github.com/paycore-labs/payroll-backend-go/internal/domain/employee"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ResolveInput carries everything salary resolution needs for one
// employee and one cycle. Bonuses and adjustments are pre-scoped to the
// cycle; AttendanceAdjustment is the signed proration amount (zero for a
// fully present month).
type ResolveInput struct {
	Employee             employee.Employee
	Bonuses              []payroll.BonusRecord
	Adjustments          []payroll.SalaryAdjustment
	AttendanceAdjustment decimal.Decimal
}

// ResolvedPay is the computed pay for one employee. Warnings are data,
// not errors: the batch keeps going and surfaces them to the caller.
type ResolvedPay struct {
	GrossSalary          decimal.Decimal
	StandardGross        decimal.Decimal
	AllowanceTotal       decimal.Decimal
	DeductionTotal       decimal.Decimal
	EarningAdjustments   decimal.Decimal
	DeductionAdjustments decimal.Decimal
	TotalTax             decimal.Decimal
	TotalStatutory       decimal.Decimal
	NetSalary            decimal.Decimal
	Lines                []payroll.PayslipLine
	Warnings             []payroll.Warning
}

// isBasicAlias catches allowances that merely restate basic pay; they
// are excluded so basic is never counted twice.
func isBasicAlias(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "basic pay", "basic salary":
		return true
	}
	return false
}

func isTaxLike(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "tax") || strings.Contains(n, "paye")
}

func isStatutoryLike(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range []string{"provident", "pension", "social security", "nssf", "nhif", "statutory"} {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// ResolveSalary computes gross, standard gross and net pay for one
// employee. It is a pure function of its input: no clock, no store, no
// ambient state.
//
// Percentage allowances are taken against basic salary; percentage
// deductions against standard gross (basic + recurring allowances), so a
// one-time bonus never inflates a recurring deduction. Negative net pay
// is a valid outcome and is surfaced, never clamped.
func ResolveSalary(in ResolveInput) (ResolvedPay, error) {
	emp := in.Employee
	basic := emp.BasicSalary

	if basic.IsZero() {
		return ResolvedPay{}, payroll.RowError{
			EmployeeID: emp.ID,
			Kind:       payroll.RowErrorValidation,
			Message:    "basic salary is missing",
		}
	}

	var out ResolvedPay
	if basic.IsNegative() {
		out.Warnings = append(out.Warnings, payroll.Warning{
			Code:       payroll.WarningNegativeBasic,
			EmployeeID: emp.ID,
			Message:    fmt.Sprintf("basic salary is negative (%s)", basic),
		})
	}

	out.Lines = append(out.Lines, payroll.PayslipLine{
		Type:   payroll.LineBasic,
		Label:  "Basic Salary",
		Amount: round2(basic),
	})

	allowanceTotal := decimal.Zero
	for _, a := range emp.Allowances {
		if isBasicAlias(a.Name) {
			continue
		}
		amount := a.Amount
		if a.IsPercentage {
			amount = basic.Mul(a.Amount).Div(hundred)
		}
		amount = round2(amount)
		allowanceTotal = allowanceTotal.Add(amount)
		out.Lines = append(out.Lines, payroll.PayslipLine{
			Type:   payroll.LineAllowance,
			Label:  a.Name,
			Amount: amount,
		})
	}

	earningAdj := decimal.Zero
	deductionAdj := decimal.Zero
	for _, b := range in.Bonuses {
		amount := round2(b.Amount)
		earningAdj = earningAdj.Add(amount)
		out.Lines = append(out.Lines, payroll.PayslipLine{
			Type:     payroll.LineBonus,
			Label:    b.Category,
			Amount:   amount,
			SourceID: b.ID,
		})
	}
	for _, adj := range in.Adjustments {
		amount := round2(adj.Amount)
		label := adj.Category
		if label == "" {
			label = string(adj.Type)
		}
		switch adj.Type {
		case payroll.AdjustmentEarning:
			earningAdj = earningAdj.Add(amount)
			out.Lines = append(out.Lines, payroll.PayslipLine{
				Type:     payroll.LineAdjustment,
				Label:    label,
				Amount:   amount,
				SourceID: adj.ID,
			})
		case payroll.AdjustmentDeduction:
			deductionAdj = deductionAdj.Add(amount)
			out.Lines = append(out.Lines, payroll.PayslipLine{
				Type:     payroll.LineAdjustment,
				Label:    label,
				Amount:   amount.Neg(),
				SourceID: adj.ID,
			})
		}
	}

	standardGross := round2(basic.Add(allowanceTotal))
	grossSalary := round2(basic.Add(allowanceTotal).Add(earningAdj))

	deductionTotal := decimal.Zero
	totalTax := decimal.Zero
	totalStatutory := decimal.Zero
	for _, d := range emp.Deductions {
		amount := d.Amount
		if d.IsPercentage {
			amount = standardGross.Mul(d.Amount).Div(hundred)
		}
		amount = round2(amount)
		deductionTotal = deductionTotal.Add(amount)
		switch {
		case isTaxLike(d.Name):
			totalTax = totalTax.Add(amount)
		case isStatutoryLike(d.Name):
			totalStatutory = totalStatutory.Add(amount)
		}
		out.Lines = append(out.Lines, payroll.PayslipLine{
			Type:   payroll.LineDeduction,
			Label:  d.Name,
			Amount: amount.Neg(),
		})
	}

	attendanceAdj := round2(in.AttendanceAdjustment)
	if !attendanceAdj.IsZero() {
		out.Lines = append(out.Lines, payroll.PayslipLine{
			Type:   payroll.LineAttendance,
			Label:  "Attendance Adjustment",
			Amount: attendanceAdj,
		})
	}

	netSalary := round2(grossSalary.Sub(deductionTotal).Sub(deductionAdj).Add(attendanceAdj))
	if netSalary.IsNegative() {
		out.Warnings = append(out.Warnings, payroll.Warning{
			Code:       payroll.WarningNegativeNet,
			EmployeeID: emp.ID,
			Message:    fmt.Sprintf("net salary is negative (%s)", netSalary),
		})
	}

	out.AllowanceTotal = round2(allowanceTotal)
	out.EarningAdjustments = round2(earningAdj)
	out.DeductionAdjustments = round2(deductionAdj)
	out.GrossSalary = grossSalary
	out.StandardGross = standardGross
	out.DeductionTotal = round2(deductionTotal)
	out.TotalTax = round2(totalTax)
	out.TotalStatutory = round2(totalStatutory)
	out.NetSalary = netSalary
	return out, nil
}
