package payroll

import (
	"testing"
	"time"

	"github.com/paycore-labs/payroll-backend-go/internal/domain/employee"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCycle() payroll.Cycle {
	return payroll.Cycle{
		ID:        "cycle-1",
		CompanyID: "company-1",
		Month:     3,
		Year:      2025,
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:    payroll.CycleStatusDraft,
	}
}

func sumAllocations(allocations []payroll.CostAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.NetAmount)
	}
	return total
}

func TestAllocate_ExactHundredPercent(t *testing.T) {
	emp := employee.Employee{
		ID: "emp-1",
		CostSplits: []employee.CostSplit{
			{EntityID: "building-a", Percentage: dec("70")},
			{EntityID: "building-b", Percentage: dec("30")},
		},
	}

	allocations, warning := Allocate(dec("1000.00"), emp, testCycle())
	require.Nil(t, warning)
	require.Len(t, allocations, 2)
	assertDecimal(t, "700.00", allocations[0].NetAmount)
	assertDecimal(t, "300.00", allocations[1].NetAmount)
}

func TestAllocate_RenormalizesWithWarning(t *testing.T) {
	emp := employee.Employee{
		ID: "emp-1",
		CostSplits: []employee.CostSplit{
			{EntityID: "project-x", Percentage: dec("60")},
			{EntityID: "project-y", Percentage: dec("30")},
		},
	}

	allocations, warning := Allocate(dec("1000.00"), emp, testCycle())
	require.NotNil(t, warning)
	assert.Equal(t, payroll.WarningReconciliation, warning.Code)
	assert.Equal(t, "emp-1", warning.EmployeeID)

	// 60/30 renormalizes to 2/3 and 1/3, reconciling to the cent.
	require.Len(t, allocations, 2)
	assertDecimal(t, "666.67", allocations[0].NetAmount)
	assertDecimal(t, "333.33", allocations[1].NetAmount)
	assertDecimal(t, "1000.00", sumAllocations(allocations))
}

func TestAllocate_LargestRemainderThreeWaySplit(t *testing.T) {
	emp := employee.Employee{
		ID: "emp-1",
		CostSplits: []employee.CostSplit{
			{EntityID: "a", Percentage: dec("33.33")},
			{EntityID: "b", Percentage: dec("33.33")},
			{EntityID: "c", Percentage: dec("33.34")},
		},
	}

	allocations, warning := Allocate(dec("100.00"), emp, testCycle())
	require.Nil(t, warning)
	assertDecimal(t, "100.00", sumAllocations(allocations))
	for _, a := range allocations {
		assert.True(t, a.NetAmount.GreaterThanOrEqual(dec("33.33")))
		assert.True(t, a.NetAmount.LessThanOrEqual(dec("33.34")))
	}
}

func TestAllocate_NoSplitsFallsBackToUnallocated(t *testing.T) {
	emp := employee.Employee{ID: "emp-1"}

	allocations, warning := Allocate(dec("1234.56"), emp, testCycle())
	require.Nil(t, warning)
	require.Len(t, allocations, 1)
	assert.Equal(t, UnallocatedEntity, allocations[0].EntityID)
	assertDecimal(t, "1234.56", allocations[0].NetAmount)
}

func TestAllocate_ExpiredSplitIgnored(t *testing.T) {
	lastYear := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	emp := employee.Employee{
		ID: "emp-1",
		CostSplits: []employee.CostSplit{
			{EntityID: "old-project", Percentage: dec("50"), EndDate: &lastYear},
			{EntityID: "current-project", Percentage: dec("50")},
		},
	}

	allocations, warning := Allocate(dec("500.00"), emp, testCycle())
	require.NotNil(t, warning) // remaining 50 renormalized to 100
	require.Len(t, allocations, 1)
	assert.Equal(t, "current-project", allocations[0].EntityID)
	assertDecimal(t, "500.00", allocations[0].NetAmount)
}

func TestAllocate_NegativeAmountStillReconciles(t *testing.T) {
	emp := employee.Employee{
		ID: "emp-1",
		CostSplits: []employee.CostSplit{
			{EntityID: "a", Percentage: dec("66.67")},
			{EntityID: "b", Percentage: dec("33.33")},
		},
	}

	allocations, _ := Allocate(dec("-150.00"), emp, testCycle())
	assertDecimal(t, "-150.00", sumAllocations(allocations))
}

func TestAllocate_OddCentsReconcile(t *testing.T) {
	emp := employee.Employee{
		ID: "emp-1",
		CostSplits: []employee.CostSplit{
			{EntityID: "a", Percentage: dec("50")},
			{EntityID: "b", Percentage: dec("50")},
		},
	}

	allocations, _ := Allocate(dec("0.03"), emp, testCycle())
	assertDecimal(t, "0.03", sumAllocations(allocations))
}
