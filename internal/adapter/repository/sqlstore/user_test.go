package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	decisionDomain "loanrisk-backend/internal/domain/decision"
	loanDomain "loanrisk-backend/internal/domain/loan"
	userDomain "loanrisk-backend/internal/domain/user"
	"loanrisk-backend/pkg/id"
)

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "dup@example.com")

	err := repo.Create(ctx, &userDomain.User{
		UserID:       id.NewID32(),
		FullName:     "Second",
		Email:        "  DUP@example.com ",
		PasswordHash: "x",
		Role:         userDomain.RoleUser,
	})
	if !errors.Is(err, userDomain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserGetters(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "Mixed@Example.com")

	got, err := repo.GetByEmail(ctx, "mixed@example.com")
	if err != nil || got.UserID != u.UserID {
		t.Fatalf("GetByEmail: %v %+v", err, got)
	}
	got, err = repo.GetByUserID(ctx, u.UserID)
	if err != nil || got.Email != "mixed@example.com" {
		t.Fatalf("GetByUserID: %v %+v", err, got)
	}
	if _, err := repo.GetByUserID(ctx, id.NewID32()); !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserDelete_CascadesLoansAndDecisions(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	loans := NewLoanRepository(db)
	decisions := NewDecisionRepository(db)
	ctx := context.Background()

	gone := seedUser(t, db, "gone@example.com")
	kept := seedUser(t, db, "kept@example.com")

	l1 := makeLoan(gone.ID, 0.2)
	l2 := makeLoan(kept.ID, 0.2)
	for _, l := range []*loanDomain.Loan{l1, l2} {
		if err := loans.Create(ctx, l); err != nil {
			t.Fatalf("Create loan: %v", err)
		}
	}
	if err := decisions.Create(ctx, &decisionDomain.Decision{
		DecisionID: id.NewID32(), LoanID: l1.ID, AdminID: kept.ID,
		Status: loanDomain.StatusApproved, Source: loanDomain.SourceAuto, DecidedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Create decision: %v", err)
	}

	if err := users.Delete(ctx, gone.UserID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := users.GetByUserID(ctx, gone.UserID); !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("user still present: %v", err)
	}
	if _, err := loans.GetByLoanID(ctx, l1.LoanID); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("owned loan survived: %v", err)
	}
	if _, err := decisions.GetByLoanID(ctx, l1.ID); !errors.Is(err, decisionDomain.ErrNotFound) {
		t.Fatalf("decision survived: %v", err)
	}
	if _, err := loans.GetByLoanID(ctx, l2.LoanID); err != nil {
		t.Fatalf("unrelated loan removed: %v", err)
	}

	if err := users.Delete(ctx, gone.UserID); !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}
