package payroll

// CycleStatus enum
type CycleStatus string

const (
	CycleStatusDraft     CycleStatus = "draft"
	CycleStatusReview    CycleStatus = "review"
	CycleStatusApproved  CycleStatus = "approved"
	CycleStatusPaid      CycleStatus = "paid"
	CycleStatusCancelled CycleStatus = "cancelled"
	CycleStatusLocked    CycleStatus = "locked"
)

// transitions is the legal edge set of the cycle state machine.
// Cancelled is reachable from any non-terminal state, Locked only from
// Approved/Paid. Locked and Cancelled are terminal.
var transitions = map[CycleStatus][]CycleStatus{
	CycleStatusDraft:    {CycleStatusReview, CycleStatusCancelled},
	CycleStatusReview:   {CycleStatusApproved, CycleStatusCancelled},
	CycleStatusApproved: {CycleStatusPaid, CycleStatusCancelled, CycleStatusLocked},
	CycleStatusPaid:     {CycleStatusLocked},
}

// IsValid reports whether s is a known cycle status.
func (s CycleStatus) IsValid() bool {
	switch s {
	case CycleStatusDraft, CycleStatusReview, CycleStatusApproved,
		CycleStatusPaid, CycleStatusCancelled, CycleStatusLocked:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s CycleStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether s -> to is a legal edge.
func (s CycleStatus) CanTransition(to CycleStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the cycle to the requested status, enforcing the
// state machine and its guards. The cycle is only mutated on success.
func (c *Cycle) Transition(to CycleStatus) error {
	if !to.IsValid() {
		return &GuardError{Op: "transition", From: c.Status, To: to, Reason: "unknown status"}
	}
	if !c.Status.CanTransition(to) {
		return &GuardError{Op: "transition", From: c.Status, To: to, Reason: "transition not allowed"}
	}
	if to == CycleStatusApproved && c.TotalEmployees == 0 {
		return &GuardError{Op: "approve", From: c.Status, To: to, Reason: "cycle has no payslips"}
	}
	c.Status = to
	return nil
}

// CanPayPayslips reports whether individual payslips of the cycle may be
// marked paid.
func (c Cycle) CanPayPayslips() bool {
	return c.Status == CycleStatusApproved || c.Status == CycleStatusPaid
}
