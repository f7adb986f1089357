package audit

import (
	"context"
	"errors"
)

// Collections used by the application.
const (
	CollRiskLogs     = "risk_logs"
	CollCalculations = "calculations"
	CollActivities   = "activities"
	CollUsers        = "users"
)

// Activity actions.
const (
	ActionRegistered   = "user_registered"
	ActionLogin        = "login"
	ActionLogout       = "logout"
	ActionApplyLoan    = "apply_loan"
	ActionCalculation  = "loan_calculation"
	ActionLoanDecision = "loan_decision"
	ActionUserDeleted  = "user_deleted"
)

var ErrUnavailable = errors.New("audit store unavailable")

// Record is one free-form audit document.
type Record map[string]any

// Sink is the best-effort side channel. Append never reports failure and
// must not block the caller on the backing store.
type Sink interface {
	Append(ctx context.Context, collection string, rec Record)
}

// Store is the explicitly requested, synchronous path (the /logs API).
type Store interface {
	Insert(ctx context.Context, collection string, rec Record) (string, error)
	FindByUser(ctx context.Context, collection, userID string, limit int64) ([]Record, error)
}

type nop struct{}

func (nop) Append(context.Context, string, Record) {}

// Nop discards everything.
var Nop Sink = nop{}
