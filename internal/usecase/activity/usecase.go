package activity

import (
	"context"
	"strings"

	"loanrisk-backend/internal/auth"
	"loanrisk-backend/internal/domain/audit"
)

// historyLimit caps the entries returned per listing.
const historyLimit = 100

type CalculationInput struct {
	LoanID      string  `json:"loan_id"`
	Amount      float64 `json:"amount"`
	Income      float64 `json:"income"`
	CreditScore int     `json:"credit_score"`
	TermMonths  int     `json:"term_months"`

	DebtRatio    float64 `json:"debt_ratio"`
	CreditFactor float64 `json:"credit_factor"`
	TermFactor   float64 `json:"term_factor"`
	RiskScore    float64 `json:"risk_score"`
}

type ActivityInput struct {
	Action  string         `json:"action"`
	Details map[string]any `json:"details"`
}

// Usecase serves explicitly requested audit writes and reads. Unlike the
// side channel, failures here reach the caller.
type Usecase struct{ store audit.Store }

func NewUsecase(store audit.Store) *Usecase { return &Usecase{store: store} }

func (u *Usecase) LogCalculation(ctx context.Context, caller auth.Identity, in CalculationInput) (string, error) {
	if u.store == nil {
		return "", audit.ErrUnavailable
	}
	return u.store.Insert(ctx, audit.CollCalculations, audit.Record{
		"user_id":       caller.UserID,
		"email":         caller.Email,
		"full_name":     caller.FullName,
		"loan_id":       in.LoanID,
		"amount":        in.Amount,
		"income":        in.Income,
		"credit_score":  in.CreditScore,
		"term_months":   in.TermMonths,
		"debt_ratio":    in.DebtRatio,
		"credit_factor": in.CreditFactor,
		"term_factor":   in.TermFactor,
		"risk_score":    in.RiskScore,
		"action":        audit.ActionCalculation,
	})
}

func (u *Usecase) LogActivity(ctx context.Context, caller auth.Identity, in ActivityInput) (string, error) {
	if u.store == nil {
		return "", audit.ErrUnavailable
	}
	rec := caller.Activity(strings.TrimSpace(in.Action))
	if len(in.Details) > 0 {
		rec["details"] = audit.Record(in.Details)
	}
	return u.store.Insert(ctx, audit.CollActivities, rec)
}

func (u *Usecase) ListActivities(ctx context.Context, caller auth.Identity) ([]audit.Record, error) {
	return u.list(ctx, audit.CollActivities, caller)
}

func (u *Usecase) ListCalculations(ctx context.Context, caller auth.Identity) ([]audit.Record, error) {
	return u.list(ctx, audit.CollCalculations, caller)
}

func (u *Usecase) list(ctx context.Context, coll string, caller auth.Identity) ([]audit.Record, error) {
	if u.store == nil {
		return nil, audit.ErrUnavailable
	}
	recs, err := u.store.FindByUser(ctx, coll, caller.UserID, historyLimit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []audit.Record{}
	}
	return recs, nil
}
