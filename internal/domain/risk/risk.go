package risk

import "math"

// Weights and bounds of the rule-based model.
const (
	debtWeight   = 0.5
	creditWeight = 0.4
	termWeight   = 0.1

	maxCreditScore = 850
	creditSpan     = 550
	maxTermMonths  = 360
	minIncome      = 1.0

	// ApprovalThreshold: scores strictly below are approved.
	ApprovalThreshold = 0.5

	ReviewBandLow  = 0.35
	ReviewBandHigh = 0.65
)

// Decision is the binary outcome of the automatic policy.
type Decision string

const (
	Approved Decision = "APPROVED"
	Rejected Decision = "REJECTED"
)

// Factors keeps the intermediate terms next to the final score; audit
// entries record all of them.
type Factors struct {
	DebtRatio    float64 `json:"debt_ratio"`
	CreditFactor float64 `json:"credit_factor"`
	TermFactor   float64 `json:"term_factor"`
	Score        float64 `json:"risk_score"`
}

// Breakdown computes the score and the factors it is made of.
// Only the weighted sum is clamped; debt ratio is left as is.
func Breakdown(amount, income float64, creditScore, termMonths int) Factors {
	debtRatio := amount / math.Max(income, minIncome)
	creditFactor := float64(maxCreditScore-creditScore) / creditSpan
	termFactor := math.Min(float64(termMonths)/maxTermMonths, 1.0)

	raw := debtRatio*debtWeight + creditFactor*creditWeight + termFactor*termWeight
	return Factors{
		DebtRatio:    debtRatio,
		CreditFactor: creditFactor,
		TermFactor:   termFactor,
		Score:        clamp(raw, 0, 1),
	}
}

// ComputeRisk returns the normalized risk score in [0,1]; higher is riskier.
func ComputeRisk(amount, income float64, creditScore, termMonths int) float64 {
	return Breakdown(amount, income, creditScore, termMonths).Score
}

// ApprovalDecision is the automatic policy.
func ApprovalDecision(score float64) Decision {
	if score < ApprovalThreshold {
		return Approved
	}
	return Rejected
}

// InReviewBand reports whether the score falls in the manual review band.
// The policy itself never returns a third state.
func InReviewBand(score float64) bool {
	return score >= ReviewBandLow && score <= ReviewBandHigh
}

func clamp(v, lo, hi float64) float64 {
	// NaN (e.g. Inf-Inf) collapses to the upper bound: treat as riskiest.
	if math.IsNaN(v) {
		return hi
	}
	return math.Min(math.Max(v, lo), hi)
}
