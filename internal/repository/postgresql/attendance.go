package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/paycore-labs/payroll-backend-go/internal/domain/attendance"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) GetByDateRange(ctx context.Context, companyID string, start, end time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, date, status, check_in, check_out,
			   hours_worked, leave_type, created_at, updated_at
		FROM attendance_records
		WHERE company_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY employee_id, date
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		var status string
		if err := rows.Scan(
			&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.Date, &status,
			&rec.CheckIn, &rec.CheckOut, &rec.HoursWorked, &rec.LeaveType,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		rec.Status = attendance.ParseDayStatus(status)
		records = append(records, rec)
	}

	return records, nil
}
