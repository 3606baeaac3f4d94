package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func marchCycle() Cycle {
	return Cycle{
		ID:        "cycle-1",
		Month:     3,
		Year:      2025,
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func strptr(s string) *string { return &s }

func TestSalaryAdjustment_AppliesTo(t *testing.T) {
	cycle := marchCycle()
	base := SalaryAdjustment{
		Status:    AdjustmentStatusActive,
		Amount:    decimal.NewFromInt(100),
		DateAdded: time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC),
	}

	t.Run("active, added before cycle end", func(t *testing.T) {
		assert.True(t, base.AppliesTo(cycle))
	})

	t.Run("inactive never applies", func(t *testing.T) {
		adj := base
		adj.Status = AdjustmentStatusInactive
		assert.False(t, adj.AppliesTo(cycle))
	})

	t.Run("payroll month filter", func(t *testing.T) {
		adj := base
		adj.PayrollMonth = strptr("2025-03")
		assert.True(t, adj.AppliesTo(cycle))

		adj.PayrollMonth = strptr("2025-04")
		assert.False(t, adj.AppliesTo(cycle))
	})

	t.Run("consumed by another cycle", func(t *testing.T) {
		adj := base
		adj.ConsumedByCycleID = strptr("cycle-0")
		assert.False(t, adj.AppliesTo(cycle))

		adj.ConsumedByCycleID = strptr("cycle-1")
		assert.True(t, adj.AppliesTo(cycle), "reprocessing the consuming cycle still sees it")
	})

	t.Run("recurring ignores consumption", func(t *testing.T) {
		adj := base
		adj.IsRecurring = true
		adj.ConsumedByCycleID = strptr("cycle-0")
		assert.True(t, adj.AppliesTo(cycle))
	})

	t.Run("added after cycle end", func(t *testing.T) {
		adj := base
		adj.DateAdded = time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
		assert.False(t, adj.AppliesTo(cycle))
	})
}

func TestBonusRecord_AppliesTo(t *testing.T) {
	cycle := marchCycle()
	base := BonusRecord{
		Status:        BonusStatusApproved,
		Amount:        decimal.NewFromInt(500),
		EffectiveDate: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	t.Run("approved within window", func(t *testing.T) {
		assert.True(t, base.AppliesTo(cycle))
	})

	t.Run("pending and rejected excluded", func(t *testing.T) {
		for _, status := range []BonusStatus{BonusStatusPending, BonusStatusRejected, BonusStatusPaid} {
			b := base
			b.Status = status
			assert.False(t, b.AppliesTo(cycle), "status %s", status)
		}
	})

	t.Run("one-time outside window excluded", func(t *testing.T) {
		b := base
		b.EffectiveDate = time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
		assert.False(t, b.AppliesTo(cycle))
	})

	t.Run("recurring applies from effective date onward", func(t *testing.T) {
		b := base
		b.IsRecurring = true
		b.EffectiveDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, b.AppliesTo(cycle))

		b.EffectiveDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		assert.False(t, b.AppliesTo(cycle))
	})

	t.Run("payroll month filter wins", func(t *testing.T) {
		b := base
		b.PayrollMonth = strptr("2025-03")
		b.EffectiveDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, b.AppliesTo(cycle))
	})
}

func TestCycle_PeriodKey(t *testing.T) {
	assert.Equal(t, "2025-03", marchCycle().PeriodKey())
	assert.Equal(t, "2025-11", Cycle{Month: 11, Year: 2025}.PeriodKey())
}
