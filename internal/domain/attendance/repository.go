package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the read-only contract against the external
// attendance store.
type AttendanceRepository interface {
	GetByDateRange(ctx context.Context, companyID string, start, end time.Time) ([]Record, error)
}
