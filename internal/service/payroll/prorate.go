package payroll

import (
	"time"

	"github.com/paycore-labs/payroll-backend-go/internal/domain/attendance"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// ProrationPolicy is the tenant-level choice of how attendance maps onto
// pay. DayWeight returns the payable fraction of one recorded day;
// Denominator returns the number of days a full period is worth
// (calendar days vs working days).
type ProrationPolicy interface {
	DayWeight(rec attendance.Record) decimal.Decimal
	Denominator(start, end time.Time) int
}

// CalendarDaysPolicy pays against every calendar day of the period.
// Unrecorded days are payable; Leave pays only for leave types listed in
// PaidLeaveTypes; unknown custom statuses pay in full unless overridden
// in CustomWeights.
type CalendarDaysPolicy struct {
	PaidLeaveTypes map[string]bool
	AbsentWeight   decimal.Decimal
	CustomWeights  map[string]decimal.Decimal
}

func (p CalendarDaysPolicy) DayWeight(rec attendance.Record) decimal.Decimal {
	switch rec.Status.Kind {
	case attendance.DayPresent, attendance.DayHoliday:
		return decimal.NewFromInt(1)
	case attendance.DayHalfDay:
		return half
	case attendance.DayAbsent:
		return p.AbsentWeight
	case attendance.DayLeave:
		if p.PaidLeaveTypes[rec.LeaveType] {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	case attendance.DayCustom:
		if w, ok := p.CustomWeights[rec.Status.Custom]; ok {
			return w
		}
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1)
}

func (p CalendarDaysPolicy) Denominator(start, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// WorkingDaysPolicy is CalendarDaysPolicy with a Monday-Friday
// denominator.
type WorkingDaysPolicy struct {
	CalendarDaysPolicy
}

func (p WorkingDaysPolicy) Denominator(start, end time.Time) int {
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	if days < 1 {
		return 1
	}
	return days
}

// DayResult records how a single attendance day was classified, keeping
// each day's contribution to the proration auditable.
type DayResult struct {
	Date   time.Time
	Status attendance.DayStatus
	Weight decimal.Decimal
}

// Proration is the outcome of attendance proration for one employee and
// one period. Factor is in [0, 1]; 1 means full pay.
type Proration struct {
	Factor decimal.Decimal
	Days   []DayResult
}

// Prorate converts a period's attendance records into a pay multiplier.
// Days without a record are payable in full, so an empty record set
// yields factor 1. Each recorded day deducts its unpaid fraction from
// the period denominator.
func Prorate(cycle payroll.Cycle, records []attendance.Record, policy ProrationPolicy) Proration {
	denom := decimal.NewFromInt(int64(policy.Denominator(cycle.StartDate, cycle.EndDate)))

	payable := denom
	days := make([]DayResult, 0, len(records))
	for _, rec := range records {
		if rec.Date.Before(cycle.StartDate) || rec.Date.After(cycle.EndDate) {
			continue
		}
		weight := policy.DayWeight(rec)
		payable = payable.Sub(decimal.NewFromInt(1).Sub(weight))
		days = append(days, DayResult{Date: rec.Date, Status: rec.Status, Weight: weight})
	}
	if payable.IsNegative() {
		payable = decimal.Zero
	}

	return Proration{
		Factor: payable.Div(denom),
		Days:   days,
	}
}

// AttendanceAdjustment converts a proration into the signed payslip
// amount against standard gross. Full attendance yields zero.
func AttendanceAdjustment(standardGross decimal.Decimal, p Proration) decimal.Decimal {
	if p.Factor.Equal(decimal.NewFromInt(1)) {
		return decimal.Zero
	}
	return round2(standardGross.Mul(p.Factor.Sub(decimal.NewFromInt(1))))
}
