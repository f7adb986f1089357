package loan

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"loanrisk-backend/internal/auth"
	"loanrisk-backend/internal/domain/audit"
	domain "loanrisk-backend/internal/domain/loan"
	"loanrisk-backend/pkg/id"
)

var ErrInvalidInput = errors.New("invalid loan application")

type Usecase struct {
	repo   domain.Repository
	scorer Scorer
	audit  audit.Sink
	log    *zap.Logger
	now    func() time.Time
}

func NewUsecase(r domain.Repository, sink audit.Sink, log *zap.Logger) *Usecase {
	if sink == nil {
		sink = audit.Nop
	}
	return &Usecase{repo: r, scorer: NewScorer(sink), audit: sink, log: log, now: time.Now}
}

// Create scores the application once and stores it as PENDING.
func (u *Usecase) Create(ctx context.Context, caller auth.Identity, in CreateLoanInput) (*LoanDTO, error) {
	if in.Amount <= 0 || in.Income <= 0 || in.CreditScore < 300 || in.CreditScore > 850 || in.TermMonths <= 0 {
		return nil, ErrInvalidInput
	}

	f := u.scorer.Score(ctx, caller.UserID, in)
	now := u.now().UTC()
	l := &domain.Loan{
		LoanID:          id.NewID32(),
		UserID:          caller.ID,
		Amount:          in.Amount,
		Income:          in.Income,
		CreditScore:     in.CreditScore,
		TermMonths:      in.TermMonths,
		RiskScore:       f.Score,
		Status:          domain.StatusPending,
		StatusUpdatedAt: now,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	u.audit.Append(ctx, audit.CollCalculations, audit.Record{
		"user_id":       caller.UserID,
		"email":         caller.Email,
		"full_name":     caller.FullName,
		"loan_id":       l.LoanID,
		"amount":        l.Amount,
		"income":        l.Income,
		"credit_score":  l.CreditScore,
		"term_months":   l.TermMonths,
		"debt_ratio":    f.DebtRatio,
		"credit_factor": f.CreditFactor,
		"term_factor":   f.TermFactor,
		"risk_score":    l.RiskScore,
		"status":        string(l.Status),
		"action":        audit.ActionCalculation,
	})
	act := caller.Activity(audit.ActionApplyLoan)
	act["details"] = audit.Record{"loan_id": l.LoanID, "amount": l.Amount, "risk_score": l.RiskScore}
	u.audit.Append(ctx, audit.CollActivities, act)
	u.log.Info("loan application created",
		zap.String("loan_id", l.LoanID),
		zap.String("user_id", caller.UserID),
		zap.Float64("risk_score", l.RiskScore),
	)

	dto := ToDTO(l, false)
	dto.UserID = caller.UserID
	return &dto, nil
}

// Get returns one of the caller's loans. Loans owned by someone else are
// reported as not found.
func (u *Usecase) Get(ctx context.Context, caller auth.Identity, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.UserID != caller.ID {
		return nil, domain.ErrNotFound
	}
	dto := ToDTO(l, false)
	return &dto, nil
}

func (u *Usecase) ListMine(ctx context.Context, caller auth.Identity, statusFilter string) ([]LoanDTO, error) {
	ls, err := u.repo.Find(ctx, domain.Filter{UserID: caller.ID, Status: parseFilter(statusFilter)})
	if err != nil {
		return nil, err
	}
	return toDTOs(ls, false), nil
}

func (u *Usecase) ListPending(ctx context.Context) ([]LoanDTO, error) {
	ls, err := u.repo.Find(ctx, domain.Filter{Status: domain.StatusPending})
	if err != nil {
		return nil, err
	}
	return toDTOs(ls, true), nil
}

func (u *Usecase) ListAll(ctx context.Context, statusFilter string) ([]LoanDTO, error) {
	ls, err := u.repo.Find(ctx, domain.Filter{Status: parseFilter(statusFilter)})
	if err != nil {
		return nil, err
	}
	return toDTOs(ls, true), nil
}

// parseFilter ignores unknown values.
func parseFilter(s string) domain.Status {
	st, err := domain.ParseStatus(s)
	if err != nil {
		return ""
	}
	return st
}
