package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/database"
)

// PayrollJobs opens draft cycles so each company always has somewhere to
// process the current month.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	db             *database.DB
}

func NewPayrollJobs(payrollService payroll.PayrollService, db *database.DB) *PayrollJobs {
	return &PayrollJobs{payrollService: payrollService, db: db}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("ensure_draft_cycles", 6*time.Hour, j.EnsureDraftCycles)
}

// EnsureDraftCycles creates the current month's draft cycle for every
// company with active employees. Creation is idempotent; an existing
// cycle for the period is not an error.
func (j *PayrollJobs) EnsureDraftCycles(ctx context.Context) error {
	rows, err := j.db.Pool.Query(ctx, `
		SELECT DISTINCT company_id FROM employees
		WHERE employment_status = 'active' AND deleted_at IS NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to get companies: %w", err)
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			continue
		}
		companyIDs = append(companyIDs, companyID)
	}

	now := time.Now().UTC()
	created := 0
	for _, companyID := range companyIDs {
		_, err := j.payrollService.CreateCycle(ctx, companyID, payroll.CreateCycleRequest{
			Month: int(now.Month()),
			Year:  now.Year(),
		})
		if err != nil {
			if errors.Is(err, payroll.ErrCycleAlreadyExists) {
				continue
			}
			slog.Error("Cron: Failed to create draft cycle", "company_id", companyID, "error", err)
			continue
		}
		created++
	}

	if created > 0 {
		slog.Info("Cron: Draft cycles created", "count", created)
	}
	return nil
}
