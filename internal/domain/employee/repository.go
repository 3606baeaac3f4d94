package employee

import "context"

// EmployeeRepository is the read-only contract against the external HR
// store. All methods are scoped by companyID to prevent cross-company
// data access.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
}
