package payroll

import "context"

// PayrollService is the surface exposed to the API layer. The company is
// resolved by the transport layer and passed in explicitly; the service
// never reaches into ambient caches or claims.
type PayrollService interface {
	CreateCycle(ctx context.Context, companyID string, req CreateCycleRequest) (CycleResponse, error)
	GetCycle(ctx context.Context, companyID string, cycleID string) (CycleResponse, error)
	ListCycles(ctx context.Context, companyID string, filter CycleFilter) (ListCyclesResponse, error)
	ProcessCycle(ctx context.Context, companyID string, cycleID string) (ProcessCycleResponse, error)
	UpdateCycleStatus(ctx context.Context, companyID string, cycleID string, req UpdateCycleStatusRequest) (CycleResponse, error)
	PayPayslip(ctx context.Context, companyID string, payslipID string, req PayPayslipRequest) (PayslipResponse, error)
	GetPayslipsByCycle(ctx context.Context, companyID string, cycleID string) ([]PayslipResponse, error)
	RenderPayslipPDF(ctx context.Context, companyID string, payslipID string) ([]byte, error)
}
