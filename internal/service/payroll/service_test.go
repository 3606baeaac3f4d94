package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/paycore-labs/payroll-backend-go/internal/domain/attendance"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/employee"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== IN-MEMORY FAKES =====

type fakeTransactor struct{}

func (fakeTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records []attendance.Record
}

func (f *fakeAttendanceRepo) GetByDateRange(_ context.Context, companyID string, start, end time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.CompanyID == companyID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakePayrollRepo struct {
	cycles      map[string]payroll.Cycle
	payslips    map[string]payroll.Payslip
	bonuses     []payroll.BonusRecord
	adjustments []payroll.SalaryAdjustment
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		cycles:   make(map[string]payroll.Cycle),
		payslips: make(map[string]payroll.Payslip),
	}
}

func (f *fakePayrollRepo) CreateCycle(_ context.Context, cycle payroll.Cycle) (payroll.Cycle, error) {
	f.cycles[cycle.ID] = cycle
	return cycle, nil
}

func (f *fakePayrollRepo) GetCycleByID(_ context.Context, id string, companyID string) (payroll.Cycle, error) {
	c, ok := f.cycles[id]
	if !ok || c.CompanyID != companyID {
		return payroll.Cycle{}, payroll.ErrCycleNotFound
	}
	return c, nil
}

func (f *fakePayrollRepo) GetCycleByPeriod(_ context.Context, companyID string, month, year int, frequency payroll.CycleFrequency) (payroll.Cycle, error) {
	for _, c := range f.cycles {
		if c.CompanyID == companyID && c.Month == month && c.Year == year && c.Frequency == frequency {
			return c, nil
		}
	}
	return payroll.Cycle{}, payroll.ErrCycleNotFound
}

func (f *fakePayrollRepo) ListCycles(_ context.Context, companyID string, _ payroll.CycleFilter) ([]payroll.Cycle, int64, error) {
	var out []payroll.Cycle
	for _, c := range f.cycles {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepo) UpdateCycle(_ context.Context, cycle payroll.Cycle) (payroll.Cycle, error) {
	current, ok := f.cycles[cycle.ID]
	if !ok {
		return payroll.Cycle{}, payroll.ErrCycleNotFound
	}
	if current.Version != cycle.Version {
		return payroll.Cycle{}, payroll.ErrVersionConflict
	}
	cycle.Version++
	f.cycles[cycle.ID] = cycle
	return cycle, nil
}

func (f *fakePayrollRepo) CreatePayslips(_ context.Context, payslips []payroll.Payslip) error {
	for _, p := range payslips {
		f.payslips[p.ID] = p
	}
	return nil
}

func (f *fakePayrollRepo) GetPayslipByID(_ context.Context, id string, companyID string) (payroll.Payslip, error) {
	p, ok := f.payslips[id]
	if !ok || p.CompanyID != companyID {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (f *fakePayrollRepo) GetPayslipsByCycle(_ context.Context, cycleID string, companyID string) ([]payroll.Payslip, error) {
	var out []payroll.Payslip
	for _, p := range f.payslips {
		if p.CycleID == cycleID && p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayrollRepo) MarkPayslipPaid(_ context.Context, id string, companyID string, version int64, paymentReference *string) (payroll.Payslip, error) {
	p, ok := f.payslips[id]
	if !ok || p.CompanyID != companyID {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	if p.Version != version {
		return payroll.Payslip{}, payroll.ErrVersionConflict
	}
	now := time.Now()
	p.IsPaid = true
	p.PaidAt = &now
	p.PaymentReference = paymentReference
	p.Version++
	f.payslips[id] = p
	return p, nil
}

func (f *fakePayrollRepo) GetApprovedBonuses(_ context.Context, companyID string, _, _ int) ([]payroll.BonusRecord, error) {
	var out []payroll.BonusRecord
	for _, b := range f.bonuses {
		if b.CompanyID == companyID && b.Status == payroll.BonusStatusApproved {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakePayrollRepo) GetActiveAdjustments(_ context.Context, companyID string, _, _ int) ([]payroll.SalaryAdjustment, error) {
	var out []payroll.SalaryAdjustment
	for _, a := range f.adjustments {
		if a.CompanyID == companyID && a.Status == payroll.AdjustmentStatusActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakePayrollRepo) MarkAdjustmentsConsumed(_ context.Context, companyID string, ids []string, cycleID string) error {
	for i := range f.adjustments {
		for _, id := range ids {
			if f.adjustments[i].ID == id && f.adjustments[i].CompanyID == companyID {
				f.adjustments[i].ConsumedByCycleID = &cycleID
			}
		}
	}
	return nil
}

// ===== HELPERS =====

const testCompany = "company-1"

func newTestService(repo *fakePayrollRepo, employees ...employee.Employee) payroll.PayrollService {
	return NewPayrollService(
		fakeTransactor{},
		repo,
		&fakeEmployeeRepo{employees: employees},
		&fakeAttendanceRepo{},
		nil,
	)
}

func rosterEmployee(id string, basic string) employee.Employee {
	emp := activeEmployee(id, basic)
	emp.CompanyID = testCompany
	return emp
}

func createTestCycle(t *testing.T, svc payroll.PayrollService) payroll.CycleResponse {
	t.Helper()
	cycle, err := svc.CreateCycle(context.Background(), testCompany, payroll.CreateCycleRequest{Month: 3, Year: 2025})
	require.NoError(t, err)
	return cycle
}

// ===== CYCLE TESTS =====

func TestPayrollService_CreateCycle(t *testing.T) {
	svc := newTestService(newFakePayrollRepo())

	cycle := createTestCycle(t, svc)
	assert.Equal(t, "draft", cycle.Status)
	assert.Equal(t, "2025-03-01", cycle.StartDate)
	assert.Equal(t, "2025-03-31", cycle.EndDate)
	assert.Equal(t, "monthly", cycle.Frequency)
}

func TestPayrollService_CreateCycle_DuplicatePeriod(t *testing.T) {
	svc := newTestService(newFakePayrollRepo())
	createTestCycle(t, svc)

	_, err := svc.CreateCycle(context.Background(), testCompany, payroll.CreateCycleRequest{Month: 3, Year: 2025})
	assert.ErrorIs(t, err, payroll.ErrCycleAlreadyExists)
}

func TestPayrollService_CreateCycle_InvalidMonth(t *testing.T) {
	svc := newTestService(newFakePayrollRepo())

	_, err := svc.CreateCycle(context.Background(), testCompany, payroll.CreateCycleRequest{Month: 13, Year: 2025})
	require.Error(t, err)
}

// ===== PROCESSING TESTS =====

func TestPayrollService_ProcessCycle_PersistsPayslipsAndAggregate(t *testing.T) {
	repo := newFakePayrollRepo()
	svc := newTestService(repo, rosterEmployee("emp-1", "50000"), rosterEmployee("emp-2", "70000"))
	cycle := createTestCycle(t, svc)

	resp, err := svc.ProcessCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Summary.NewPayslipsGenerated)
	assert.Equal(t, "review", resp.Cycle.Status)
	assert.Len(t, repo.payslips, 2)

	stored := repo.cycles[cycle.ID]
	assert.Equal(t, 2, stored.TotalEmployees)
	assertDecimal(t, "120000", stored.TotalNetSalary)
}

func TestPayrollService_ProcessCycle_SecondRunGeneratesNothing(t *testing.T) {
	repo := newFakePayrollRepo()
	svc := newTestService(repo, rosterEmployee("emp-1", "50000"))
	cycle := createTestCycle(t, svc)

	_, err := svc.ProcessCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)

	resp, err := svc.ProcessCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Summary.NewPayslipsGenerated)
	assert.Equal(t, 1, resp.Summary.ExistingPayslipsSkipped)
	assert.Len(t, repo.payslips, 1)
}

func TestPayrollService_ProcessCycle_StampsConsumedAdjustment(t *testing.T) {
	repo := newFakePayrollRepo()
	repo.adjustments = []payroll.SalaryAdjustment{{
		ID:         "adj-1",
		CompanyID:  testCompany,
		EmployeeID: "emp-1",
		Type:       payroll.AdjustmentEarning,
		Amount:     dec("5000"),
		Status:     payroll.AdjustmentStatusActive,
		DateAdded:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}}
	svc := newTestService(repo, rosterEmployee("emp-1", "50000"))
	cycle := createTestCycle(t, svc)

	_, err := svc.ProcessCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)

	require.NotNil(t, repo.adjustments[0].ConsumedByCycleID)
	assert.Equal(t, cycle.ID, *repo.adjustments[0].ConsumedByCycleID)
}

func TestPayrollService_ProcessCycle_NotFound(t *testing.T) {
	svc := newTestService(newFakePayrollRepo())

	_, err := svc.ProcessCycle(context.Background(), testCompany, "missing")
	assert.ErrorIs(t, err, payroll.ErrCycleNotFound)
}

// ===== LIFECYCLE TESTS =====

func approvedCycleWithPayslips(t *testing.T, repo *fakePayrollRepo, svc payroll.PayrollService) (payroll.CycleResponse, []payroll.PayslipResponse) {
	t.Helper()
	cycle := createTestCycle(t, svc)
	_, err := svc.ProcessCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateCycleStatus(context.Background(), testCompany, cycle.ID, payroll.UpdateCycleStatusRequest{Status: "approved"})
	require.NoError(t, err)

	payslips, err := svc.GetPayslipsByCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)
	return updated, payslips
}

func TestPayrollService_UpdateCycleStatus_IllegalTransition(t *testing.T) {
	svc := newTestService(newFakePayrollRepo())
	cycle := createTestCycle(t, svc)

	_, err := svc.UpdateCycleStatus(context.Background(), testCompany, cycle.ID, payroll.UpdateCycleStatusRequest{Status: "approved"})
	var guardErr *payroll.GuardError
	require.ErrorAs(t, err, &guardErr)

	unchanged, err := svc.GetCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", unchanged.Status)
}

func TestPayrollService_PayPayslip_GuardedBeforeApproval(t *testing.T) {
	repo := newFakePayrollRepo()
	svc := newTestService(repo, rosterEmployee("emp-1", "50000"))
	cycle := createTestCycle(t, svc)

	_, err := svc.ProcessCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)

	payslips, err := svc.GetPayslipsByCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)
	require.Len(t, payslips, 1)

	// Cycle is in review: paying must fail and mutate nothing.
	_, err = svc.PayPayslip(context.Background(), testCompany, payslips[0].ID, payroll.PayPayslipRequest{Version: payslips[0].Version})
	var guardErr *payroll.GuardError
	require.ErrorAs(t, err, &guardErr)

	stored := repo.payslips[payslips[0].ID]
	assert.False(t, stored.IsPaid)
	assert.Nil(t, stored.PaidAt)
}

func TestPayrollService_PayPayslip_VersionConflict(t *testing.T) {
	repo := newFakePayrollRepo()
	svc := newTestService(repo, rosterEmployee("emp-1", "50000"))
	_, payslips := approvedCycleWithPayslips(t, repo, svc)

	_, err := svc.PayPayslip(context.Background(), testCompany, payslips[0].ID, payroll.PayPayslipRequest{Version: payslips[0].Version + 7})
	assert.ErrorIs(t, err, payroll.ErrVersionConflict)

	stored := repo.payslips[payslips[0].ID]
	assert.False(t, stored.IsPaid)
}

func TestPayrollService_PayPayslip_LastPaymentCompletesCycle(t *testing.T) {
	repo := newFakePayrollRepo()
	svc := newTestService(repo, rosterEmployee("emp-1", "50000"), rosterEmployee("emp-2", "70000"))
	cycle, payslips := approvedCycleWithPayslips(t, repo, svc)
	require.Len(t, payslips, 2)

	_, err := svc.PayPayslip(context.Background(), testCompany, payslips[0].ID, payroll.PayPayslipRequest{Version: payslips[0].Version})
	require.NoError(t, err)

	mid, err := svc.GetCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", mid.Status, "cycle stays approved while payslips remain unpaid")

	paid, err := svc.PayPayslip(context.Background(), testCompany, payslips[1].ID, payroll.PayPayslipRequest{Version: payslips[1].Version})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	final, err := svc.GetCycle(context.Background(), testCompany, cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", final.Status, "paying the last payslip completes the cycle")
}

func TestPayrollService_PayPayslip_AlreadyPaid(t *testing.T) {
	repo := newFakePayrollRepo()
	svc := newTestService(repo, rosterEmployee("emp-1", "50000"))
	_, payslips := approvedCycleWithPayslips(t, repo, svc)

	first, err := svc.PayPayslip(context.Background(), testCompany, payslips[0].ID, payroll.PayPayslipRequest{Version: payslips[0].Version})
	require.NoError(t, err)

	_, err = svc.PayPayslip(context.Background(), testCompany, payslips[0].ID, payroll.PayPayslipRequest{Version: first.Version})
	assert.ErrorIs(t, err, payroll.ErrPayslipAlreadyPaid)
}

func TestPayrollService_RenderPayslipPDF(t *testing.T) {
	repo := newFakePayrollRepo()
	svc := newTestService(repo, rosterEmployee("emp-1", "50000"))
	_, payslips := approvedCycleWithPayslips(t, repo, svc)

	data, err := svc.RenderPayslipPDF(context.Background(), testCompany, payslips[0].ID)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}
