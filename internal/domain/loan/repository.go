package loan

import "context"

// Filter narrows Find. Zero values mean "any".
type Filter struct {
	UserID uint64
	Status Status
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// Row-locking variant, only meaningful inside a transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// Find returns newest first.
	Find(ctx context.Context, f Filter) ([]Loan, error)
	// UpdateStatus persists l.Status only if the stored status still equals
	// from; otherwise it returns a *ConflictError with the stored status.
	UpdateStatus(ctx context.Context, l *Loan, from Status) error
}
