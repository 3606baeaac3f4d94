package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayKind enumerates the standard attendance classifications.
type DayKind string

const (
	DayPresent DayKind = "present"
	DayAbsent  DayKind = "absent"
	DayLeave   DayKind = "leave"
	DayHoliday DayKind = "holiday"
	DayHalfDay DayKind = "half_day"
	DayCustom  DayKind = "custom"
)

// DayStatus is a tagged variant: a standard kind, or DayCustom with a
// tenant-defined label in Custom.
type DayStatus struct {
	Kind   DayKind
	Custom string
}

// ParseDayStatus maps a stored status string onto a DayStatus. Unknown
// labels become DayCustom rather than failing, matching tenant-defined
// statuses in the wild.
func ParseDayStatus(s string) DayStatus {
	switch DayKind(s) {
	case DayPresent, DayAbsent, DayLeave, DayHoliday, DayHalfDay:
		return DayStatus{Kind: DayKind(s)}
	default:
		return DayStatus{Kind: DayCustom, Custom: s}
	}
}

func (s DayStatus) String() string {
	if s.Kind == DayCustom {
		return s.Custom
	}
	return string(s.Kind)
}

// Record is one employee-day of attendance, owned by the external HR
// store and read-only here.
type Record struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Date        time.Time
	Status      DayStatus
	CheckIn     *time.Time
	CheckOut    *time.Time
	HoursWorked decimal.Decimal
	LeaveType   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
