package decision

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"loanrisk-backend/internal/auth"
	"loanrisk-backend/internal/domain/audit"
	domainDecision "loanrisk-backend/internal/domain/decision"
	domainLoan "loanrisk-backend/internal/domain/loan"
	"loanrisk-backend/internal/domain/uow"
	"loanrisk-backend/internal/domain/user"
	"loanrisk-backend/pkg/id"
)

var errNoUoW = errors.New("decision: unit of work not configured")

type Usecase struct {
	uow   uow.UnitOfWork
	audit audit.Sink
	log   *zap.Logger
	now   func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, sink audit.Sink, log *zap.Logger) *Usecase {
	if sink == nil {
		sink = audit.Nop
	}
	return &Usecase{uow: tx, audit: sink, log: log, now: time.Now}
}

// Decide moves a PENDING loan to APPROVED or REJECTED. An action of
// APPROVED or REJECTED overrides the policy; an empty action applies the
// automatic policy to the stored risk score. A loan that is already
// decided yields a *loan.ConflictError and stays unchanged.
func (u *Usecase) Decide(ctx context.Context, admin auth.Identity, loanID, action string) (*DecisionDTO, error) {
	if u.uow == nil {
		return nil, errNoUoW
	}
	var (
		dto   *DecisionDTO
		owner *user.User
	)

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		from := l.Status
		src, err := l.Decide(domainLoan.Status(action), u.now())
		if err != nil {
			return err
		}
		if err := r.Loans.UpdateStatus(ctx, l, from); err != nil {
			return err
		}

		d := &domainDecision.Decision{
			DecisionID: id.NewID32(),
			LoanID:     l.ID, // numeric FK
			AdminID:    admin.ID,
			Status:     l.Status,
			Source:     src,
			RiskScore:  l.RiskScore,
			DecidedAt:  l.StatusUpdatedAt,
		}
		if err := r.Decisions.Create(ctx, d); err != nil {
			if errors.Is(err, domainDecision.ErrExists) {
				return &domainLoan.ConflictError{LoanID: l.LoanID, Current: recordedStatus(ctx, r, l)}
			}
			return err
		}
		owner = l.User

		dto = &DecisionDTO{
			DecisionID: d.DecisionID,
			LoanID:     l.LoanID, // public id
			Status:     string(d.Status),
			Source:     string(d.Source),
			RiskScore:  d.RiskScore,
			DecidedBy:  admin.UserID,
			DecidedAt:  d.DecidedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Append(ctx, audit.CollActivities, decisionRecord(admin, owner, dto))
	u.log.Info("loan decided",
		zap.String("loan_id", dto.LoanID),
		zap.String("status", dto.Status),
		zap.String("source", dto.Source),
		zap.String("admin_id", admin.UserID),
	)
	return dto, nil
}

// decisionRecord is attributed to the loan owner so it shows up in their
// activity feed.
func decisionRecord(admin auth.Identity, owner *user.User, dto *DecisionDTO) audit.Record {
	rec := audit.Record{
		"admin_id":    admin.UserID,
		"admin_email": admin.Email,
		"user_id":     "",
		"user_email":  "unknown",
		"loan_id":     dto.LoanID,
		"decision":    dto.Status,
		"source":      dto.Source,
		"risk_score":  dto.RiskScore,
		"action":      audit.ActionLoanDecision,
	}
	if owner != nil {
		rec["user_id"] = owner.UserID
		rec["user_email"] = owner.Email
	}
	return rec
}

// recordedStatus reports the status held by the decision that already
// exists for l, falling back to the status l was about to take.
func recordedStatus(ctx context.Context, r uow.Repos, l *domainLoan.Loan) domainLoan.Status {
	if d, err := r.Decisions.GetByLoanID(ctx, l.ID); err == nil {
		return d.Status
	}
	return l.Status
}
