package uow

import (
	"context"

	"loanrisk-backend/internal/domain/decision"
	"loanrisk-backend/internal/domain/loan"
)

type Repos struct {
	Loans     loan.Repository
	Decisions decision.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
