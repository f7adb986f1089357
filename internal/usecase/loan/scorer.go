package loan

import (
	"context"

	"loanrisk-backend/internal/domain/audit"
	"loanrisk-backend/internal/domain/risk"
)

// Scorer computes the risk breakdown of an application and appends it to
// the risk log.
type Scorer struct{ audit audit.Sink }

func NewScorer(sink audit.Sink) Scorer {
	if sink == nil {
		sink = audit.Nop
	}
	return Scorer{audit: sink}
}

func (s Scorer) Score(ctx context.Context, userID string, in CreateLoanInput) risk.Factors {
	f := risk.Breakdown(in.Amount, in.Income, in.CreditScore, in.TermMonths)
	s.audit.Append(ctx, audit.CollRiskLogs, audit.Record{
		"user_id":        userID,
		"amount":         in.Amount,
		"income":         in.Income,
		"credit_score":   in.CreditScore,
		"term_months":    in.TermMonths,
		"debt_ratio":     f.DebtRatio,
		"credit_factor":  f.CreditFactor,
		"term_factor":    f.TermFactor,
		"risk_score":     f.Score,
		"recommendation": string(risk.ApprovalDecision(f.Score)),
		"manual_review":  risk.InReviewBand(f.Score),
	})
	return f
}
