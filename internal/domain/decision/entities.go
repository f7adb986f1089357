package decision

import (
	"errors"
	"time"

	"loanrisk-backend/internal/domain/loan"
)

var (
	ErrNotFound = errors.New("decision not found")
	ErrExists   = errors.New("decision already recorded")
)

// Table: loan_decisions. The unique loan_id index backs the one-shot rule
// at the storage level: at most one decision row per loan.
type Decision struct {
	ID         uint64      `gorm:"column:id;primaryKey;autoIncrement"`
	DecisionID string      `gorm:"column:decision_id;type:char(32);not null;uniqueIndex:ux_decisions_decision_id"`
	LoanID     uint64      `gorm:"column:loan_id;not null;uniqueIndex:ux_decisions_loan_id"`
	Loan       *loan.Loan  `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE"`
	AdminID    uint64      `gorm:"column:admin_id;not null;index"`
	Status     loan.Status `gorm:"column:status;size:16;not null"`
	Source     loan.Source `gorm:"column:source;size:16;not null"`
	RiskScore  float64     `gorm:"column:risk_score;not null"`
	DecidedAt  time.Time   `gorm:"column:decided_at;not null"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (Decision) TableName() string { return "loan_decisions" }
