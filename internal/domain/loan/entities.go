package loan

import (
	"errors"
	"fmt"
	"time"

	"loanrisk-backend/internal/domain/risk"
	"loanrisk-backend/internal/domain/user"
)

var (
	ErrNotFound = errors.New("loan not found")
	// ErrConflict is matched by every *ConflictError.
	ErrConflict      = errors.New("loan already decided")
	ErrInvalidStatus = errors.New("invalid loan status")
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus accepts the three canonical names only.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

func (s Status) String() string { return string(s) }

// Source tells whether the final status came from an admin override or
// from the automatic policy.
type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
)

// ConflictError is returned when a decision targets a loan that is no
// longer PENDING.
type ConflictError struct {
	LoanID  string
	Current Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("loan %s already %s", e.LoanID, e.Current)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Table: loan_applications
type Loan struct {
	ID              uint64     `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string     `gorm:"size:32;uniqueIndex:ux_loans_loan_id;not null" json:"loan_id"`
	UserID          uint64     `gorm:"not null;index:idx_loans_user_status" json:"-"`
	User            *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Amount          float64    `gorm:"not null" json:"amount"`
	Income          float64    `gorm:"not null" json:"income"`
	CreditScore     int        `gorm:"not null" json:"credit_score"`
	TermMonths      int        `gorm:"not null" json:"term_months"`
	RiskScore       float64    `gorm:"not null;default:0" json:"risk_score"`
	Status          Status     `gorm:"size:16;not null;default:'PENDING';index:idx_loans_user_status" json:"status"`
	StatusUpdatedAt time.Time  `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loan_applications" }

// Decide applies the single legal transition PENDING -> APPROVED|REJECTED.
// An override of APPROVED or REJECTED wins; anything else defers to the
// automatic policy on the stored risk score. On conflict the loan is left
// untouched.
func (l *Loan) Decide(override Status, now time.Time) (Source, error) {
	if l.Status != StatusPending {
		return "", &ConflictError{LoanID: l.LoanID, Current: l.Status}
	}
	src := SourceManual
	next := override
	if !override.Terminal() {
		src = SourceAuto
		next = Status(risk.ApprovalDecision(l.RiskScore))
	}
	l.Status = next
	l.StatusUpdatedAt = now.UTC()
	return src, nil
}
