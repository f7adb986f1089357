package decision

import "time"

type DecisionDTO struct {
	DecisionID string    `json:"decision_id"`
	LoanID     string    `json:"loan_id"`
	Status     string    `json:"status"`
	Source     string    `json:"source"` // manual | auto
	RiskScore  float64   `json:"risk_score"`
	DecidedBy  string    `json:"decided_by"`
	DecidedAt  time.Time `json:"decided_at"`
}
