package payroll

import (
	"fmt"
	"sort"

	"github.com/paycore-labs/payroll-backend-go/internal/domain/employee"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// UnallocatedEntity receives the full amount when an employee declares
// no cost splits for the period, keeping allocation totals reconciled.
const UnallocatedEntity = "unallocated"

// Allocate spreads amount across the employee's cost splits that are
// active within the cycle window. The output always sums exactly to the
// input: declared percentages that do not add up to 100 are renormalized
// proportionally (with a reconciliation warning rather than a failure),
// and leftover cents are assigned by largest remainder.
func Allocate(amount decimal.Decimal, emp employee.Employee, cycle payroll.Cycle) ([]payroll.CostAllocation, *payroll.Warning) {
	var active []employee.CostSplit
	for _, s := range emp.CostSplits {
		if s.ActiveWithin(cycle.StartDate, cycle.EndDate) && s.Percentage.IsPositive() {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return []payroll.CostAllocation{{EntityID: UnallocatedEntity, NetAmount: round2(amount)}}, nil
	}

	total := decimal.Zero
	for _, s := range active {
		total = total.Add(s.Percentage)
	}

	var warning *payroll.Warning
	if !total.Equal(hundred) {
		warning = &payroll.Warning{
			Code:       payroll.WarningReconciliation,
			EmployeeID: emp.ID,
			Message:    fmt.Sprintf("cost split percentages sum to %s, renormalized to 100", total),
		}
	}

	// Work in whole cents so the shares can reconcile exactly.
	cents := round2(amount).Mul(hundred).IntPart()
	negative := cents < 0
	if negative {
		cents = -cents
	}

	type share struct {
		idx       int
		base      int64
		remainder decimal.Decimal
	}
	shares := make([]share, len(active))
	assigned := int64(0)
	for i, s := range active {
		exact := decimal.NewFromInt(cents).Mul(s.Percentage).Div(total)
		base := exact.Floor().IntPart()
		shares[i] = share{idx: i, base: base, remainder: exact.Sub(exact.Floor())}
		assigned += base
	}

	// Largest remainder: hand the leftover cents to the biggest
	// fractional shares, earliest split winning ties.
	leftover := cents - assigned
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return shares[order[a]].remainder.GreaterThan(shares[order[b]].remainder)
	})
	for i := int64(0); i < leftover; i++ {
		shares[order[i%int64(len(order))]].base++
	}

	out := make([]payroll.CostAllocation, len(active))
	for i, s := range shares {
		amt := s.base
		if negative {
			amt = -amt
		}
		out[i] = payroll.CostAllocation{
			EntityID:  active[i].EntityID,
			NetAmount: decimal.New(amt, -2),
		}
	}
	return out, warning
}
