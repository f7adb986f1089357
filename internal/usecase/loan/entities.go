package loan

import (
	"time"

	domain "loanrisk-backend/internal/domain/loan"
)

type CreateLoanInput struct {
	Amount      float64 `json:"amount"`
	Income      float64 `json:"income"`
	CreditScore int     `json:"credit_score"`
	TermMonths  int     `json:"term_months"`
}

type LoanDTO struct {
	LoanID      string    `json:"loan_id"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Income      float64   `json:"income"`
	CreditScore int       `json:"credit_score"`
	TermMonths  int       `json:"term_months"`
	Status      string    `json:"status"`
	RiskScore   float64   `json:"risk_score"`
	CreatedAt   time.Time `json:"created_at"`
	UserEmail   string    `json:"user_email,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
}

// ToDTO renders a loan; withOwner adds the owner's email and name for
// admin views.
func ToDTO(l *domain.Loan, withOwner bool) LoanDTO {
	dto := LoanDTO{
		LoanID:      l.LoanID,
		Amount:      l.Amount,
		Income:      l.Income,
		CreditScore: l.CreditScore,
		TermMonths:  l.TermMonths,
		Status:      string(l.Status),
		RiskScore:   l.RiskScore,
		CreatedAt:   l.CreatedAt,
	}
	if l.User != nil {
		dto.UserID = l.User.UserID
		if withOwner {
			dto.UserEmail = l.User.Email
			dto.UserName = l.User.FullName
		}
	}
	return dto
}

func toDTOs(ls []domain.Loan, withOwner bool) []LoanDTO {
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, ToDTO(&ls[i], withOwner))
	}
	return out
}
