package decision

import "context"

type Repository interface {
	// Create fails if the loan already has a decision.
	Create(ctx context.Context, d *Decision) error
	// Get decision by numeric loan ID
	GetByLoanID(ctx context.Context, loanID uint64) (*Decision, error)
}
