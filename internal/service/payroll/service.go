package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/attendance"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/employee"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/pdf"
)

// Transactor runs a function inside a storage transaction. Satisfied by
// *database.DB.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type PayrollServiceImpl struct {
	db             Transactor
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	policy         ProrationPolicy
}

func NewPayrollService(
	db Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	policy ProrationPolicy,
) payroll.PayrollService {
	if policy == nil {
		policy = CalendarDaysPolicy{}
	}
	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		policy:         policy,
	}
}

// ========== CYCLES ==========

func (s *PayrollServiceImpl) CreateCycle(ctx context.Context, companyID string, req payroll.CreateCycleRequest) (payroll.CycleResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CycleResponse{}, err
	}

	frequency := payroll.FrequencyMonthly
	if req.Frequency != "" {
		frequency = payroll.CycleFrequency(req.Frequency)
	}

	_, err := s.payrollRepo.GetCycleByPeriod(ctx, companyID, req.Month, req.Year, frequency)
	if err == nil {
		return payroll.CycleResponse{}, payroll.ErrCycleAlreadyExists
	}
	if !errors.Is(err, payroll.ErrCycleNotFound) {
		return payroll.CycleResponse{}, fmt.Errorf("failed to check existing cycle: %w", err)
	}

	startDate := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)
	payDate := endDate
	if req.PayDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.PayDate)
		if err == nil {
			payDate = parsed
		}
	}

	cycle := payroll.Cycle{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CompanyID: companyID,
		Month:     req.Month,
		Year:      req.Year,
		Frequency: frequency,
		StartDate: startDate,
		EndDate:   endDate,
		PayDate:   payDate,
		Status:    payroll.CycleStatusDraft,
		Version:   1,
	}

	created, err := s.payrollRepo.CreateCycle(ctx, cycle)
	if err != nil {
		return payroll.CycleResponse{}, err
	}
	return mapCycleResponse(created), nil
}

func (s *PayrollServiceImpl) GetCycle(ctx context.Context, companyID string, cycleID string) (payroll.CycleResponse, error) {
	cycle, err := s.payrollRepo.GetCycleByID(ctx, cycleID, companyID)
	if err != nil {
		return payroll.CycleResponse{}, err
	}
	return mapCycleResponse(cycle), nil
}

func (s *PayrollServiceImpl) ListCycles(ctx context.Context, companyID string, filter payroll.CycleFilter) (payroll.ListCyclesResponse, error) {
	cycles, totalCount, err := s.payrollRepo.ListCycles(ctx, companyID, filter)
	if err != nil {
		return payroll.ListCyclesResponse{}, err
	}

	data := make([]payroll.CycleResponse, 0, len(cycles))
	for _, c := range cycles {
		data = append(data, mapCycleResponse(c))
	}
	return payroll.ListCyclesResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== PROCESSING ==========

func (s *PayrollServiceImpl) ProcessCycle(ctx context.Context, companyID string, cycleID string) (payroll.ProcessCycleResponse, error) {
	cycle, err := s.payrollRepo.GetCycleByID(ctx, cycleID, companyID)
	if err != nil {
		return payroll.ProcessCycleResponse{}, err
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.ProcessCycleResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}
	bonuses, err := s.payrollRepo.GetApprovedBonuses(ctx, companyID, cycle.Month, cycle.Year)
	if err != nil {
		return payroll.ProcessCycleResponse{}, fmt.Errorf("failed to get bonuses: %w", err)
	}
	adjustments, err := s.payrollRepo.GetActiveAdjustments(ctx, companyID, cycle.Month, cycle.Year)
	if err != nil {
		return payroll.ProcessCycleResponse{}, fmt.Errorf("failed to get adjustments: %w", err)
	}
	attendanceRecords, err := s.attendanceRepo.GetByDateRange(ctx, companyID, cycle.StartDate, cycle.EndDate)
	if err != nil {
		return payroll.ProcessCycleResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	existing, err := s.payrollRepo.GetPayslipsByCycle(ctx, cycleID, companyID)
	if err != nil {
		return payroll.ProcessCycleResponse{}, fmt.Errorf("failed to get existing payslips: %w", err)
	}

	result, err := ProcessCycle(ProcessInput{
		Cycle:       cycle,
		Employees:   employees,
		Bonuses:     bonuses,
		Adjustments: adjustments,
		Attendance:  attendanceRecords,
		Existing:    existing,
		Policy:      s.policy,
	})
	if err != nil {
		return payroll.ProcessCycleResponse{}, err
	}

	// New payslips, consumption stamps and the cycle aggregate commit as
	// one unit; a partial write must never be observable.
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		if len(result.NewPayslips) > 0 {
			if err := s.payrollRepo.CreatePayslips(ctx, result.NewPayslips); err != nil {
				return fmt.Errorf("failed to persist payslips: %w", err)
			}
		}
		if len(result.ConsumedAdjustmentIDs) > 0 {
			if err := s.payrollRepo.MarkAdjustmentsConsumed(ctx, companyID, result.ConsumedAdjustmentIDs, cycle.ID); err != nil {
				return fmt.Errorf("failed to mark adjustments consumed: %w", err)
			}
		}
		updated, err := s.payrollRepo.UpdateCycle(ctx, result.Cycle)
		if err != nil {
			return fmt.Errorf("failed to update cycle aggregate: %w", err)
		}
		result.Cycle = updated
		return nil
	})
	if err != nil {
		return payroll.ProcessCycleResponse{}, err
	}

	payslips := make([]payroll.PayslipResponse, 0, len(result.NewPayslips))
	for _, p := range result.NewPayslips {
		payslips = append(payslips, mapPayslipResponse(p))
	}
	return payroll.ProcessCycleResponse{
		Cycle:    mapCycleResponse(result.Cycle),
		Payslips: payslips,
		Summary:  result.Summary,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}, nil
}

// ========== LIFECYCLE ==========

func (s *PayrollServiceImpl) UpdateCycleStatus(ctx context.Context, companyID string, cycleID string, req payroll.UpdateCycleStatusRequest) (payroll.CycleResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CycleResponse{}, err
	}

	cycle, err := s.payrollRepo.GetCycleByID(ctx, cycleID, companyID)
	if err != nil {
		return payroll.CycleResponse{}, err
	}

	if err := cycle.Transition(payroll.CycleStatus(req.Status)); err != nil {
		return payroll.CycleResponse{}, err
	}

	updated, err := s.payrollRepo.UpdateCycle(ctx, cycle)
	if err != nil {
		return payroll.CycleResponse{}, err
	}
	return mapCycleResponse(updated), nil
}

// ========== PAYSLIPS ==========

func (s *PayrollServiceImpl) PayPayslip(ctx context.Context, companyID string, payslipID string, req payroll.PayPayslipRequest) (payroll.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}

	payslip, err := s.payrollRepo.GetPayslipByID(ctx, payslipID, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	if payslip.IsPaid {
		return payroll.PayslipResponse{}, payroll.ErrPayslipAlreadyPaid
	}

	cycle, err := s.payrollRepo.GetCycleByID(ctx, payslip.CycleID, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	if !cycle.CanPayPayslips() {
		return payroll.PayslipResponse{}, &payroll.GuardError{
			Op: "pay", From: cycle.Status, Reason: "cycle must be approved before payslips are paid",
		}
	}

	var paid payroll.Payslip
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		paid, err = s.payrollRepo.MarkPayslipPaid(ctx, payslipID, companyID, req.Version, req.PaymentReference)
		if err != nil {
			return err
		}

		// Derived transition: paying the last unpaid payslip completes
		// the cycle.
		remaining, err := s.payrollRepo.GetPayslipsByCycle(ctx, cycle.ID, companyID)
		if err != nil {
			return err
		}
		allPaid := true
		for _, p := range remaining {
			if !p.IsPaid {
				allPaid = false
				break
			}
		}
		if allPaid && cycle.Status == payroll.CycleStatusApproved {
			if err := cycle.Transition(payroll.CycleStatusPaid); err != nil {
				return err
			}
			if _, err := s.payrollRepo.UpdateCycle(ctx, cycle); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	return mapPayslipResponse(paid), nil
}

func (s *PayrollServiceImpl) GetPayslipsByCycle(ctx context.Context, companyID string, cycleID string) ([]payroll.PayslipResponse, error) {
	if _, err := s.payrollRepo.GetCycleByID(ctx, cycleID, companyID); err != nil {
		return nil, err
	}

	payslips, err := s.payrollRepo.GetPayslipsByCycle(ctx, cycleID, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		result = append(result, mapPayslipResponse(p))
	}
	return result, nil
}

func (s *PayrollServiceImpl) RenderPayslipPDF(ctx context.Context, companyID string, payslipID string) ([]byte, error) {
	payslip, err := s.payrollRepo.GetPayslipByID(ctx, payslipID, companyID)
	if err != nil {
		return nil, err
	}
	cycle, err := s.payrollRepo.GetCycleByID(ctx, payslip.CycleID, companyID)
	if err != nil {
		return nil, err
	}
	return pdf.RenderPayslip(payslip, cycle)
}

// ========== HELPERS ==========

func mapCycleResponse(c payroll.Cycle) payroll.CycleResponse {
	return payroll.CycleResponse{
		ID:               c.ID,
		CompanyID:        c.CompanyID,
		Month:            c.Month,
		Year:             c.Year,
		Frequency:        string(c.Frequency),
		StartDate:        c.StartDate.Format("2006-01-02"),
		EndDate:          c.EndDate.Format("2006-01-02"),
		PayDate:          c.PayDate.Format("2006-01-02"),
		Status:           string(c.Status),
		TotalEmployees:   c.TotalEmployees,
		TotalGrossSalary: c.TotalGrossSalary,
		TotalDeductions:  c.TotalDeductions,
		TotalNetSalary:   c.TotalNetSalary,
		CostsByEntity:    c.CostsByEntity,
	}
}

func mapPayslipResponse(p payroll.Payslip) payroll.PayslipResponse {
	var paidAtStr *string
	if p.PaidAt != nil {
		str := p.PaidAt.Format(time.RFC3339)
		paidAtStr = &str
	}

	allocations := make([]payroll.CostAllocationResponse, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		allocations = append(allocations, payroll.CostAllocationResponse{
			EntityID:  a.EntityID,
			NetAmount: a.NetAmount,
		})
	}
	lines := make([]payroll.PayslipLineResponse, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, payroll.PayslipLineResponse{
			Type:   string(l.Type),
			Label:  l.Label,
			Amount: l.Amount,
		})
	}

	return payroll.PayslipResponse{
		ID:               p.ID,
		CycleID:          p.CycleID,
		EmployeeID:       p.EmployeeID,
		EmployeeName:     p.EmployeeName,
		GrossSalary:      p.GrossSalary,
		StandardGross:    p.StandardGross,
		TotalDeductions:  p.TotalDeductions,
		TotalTax:         p.TotalTax,
		TotalStatutory:   p.TotalStatutory,
		NetSalary:        p.NetSalary,
		Allocations:      allocations,
		Lines:            lines,
		IsPaid:           p.IsPaid,
		PaidAt:           paidAtStr,
		PaymentReference: p.PaymentReference,
		Version:          p.Version,
	}
}
