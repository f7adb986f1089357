package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	loanDomain "loanrisk-backend/internal/domain/loan"
	userDomain "loanrisk-backend/internal/domain/user"
	infradb "loanrisk-backend/internal/infrastructure/db"
	"loanrisk-backend/pkg/id"
)

// openTestDB creates an in-memory sqlite DB with the real schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infradb.OpenGormWithDialector(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := infradb.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *userDomain.User {
	t.Helper()
	u := &userDomain.User{
		UserID:       id.NewID32(),
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         userDomain.RoleUser,
	}
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func makeLoan(ownerID uint64, risk float64) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:          id.NewID32(),
		UserID:          ownerID,
		Amount:          100_000,
		Income:          50_000,
		CreditScore:     720,
		TermMonths:      60,
		RiskScore:       risk,
		Status:          loanDomain.StatusPending,
		StatusUpdatedAt: time.Now().UTC(),
	}
}

func TestCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")

	l := makeLoan(owner.ID, 0.42)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.UserID != owner.ID || got.RiskScore != 0.42 || got.Status != loanDomain.StatusPending {
		t.Errorf("unexpected loan: %+v", got)
	}
	if got.User == nil || got.User.Email != "owner@example.com" {
		t.Errorf("owner not preloaded: %+v", got.User)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	_, err := repo.GetByLoanID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFind_FiltersAndOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")

	first := makeLoan(a.ID, 0.1)
	second := makeLoan(a.ID, 0.2)
	second.Status = loanDomain.StatusApproved
	other := makeLoan(b.ID, 0.3)
	for _, l := range []*loanDomain.Loan{first, second, other} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := repo.Find(ctx, loanDomain.Filter{})
	if err != nil {
		t.Fatalf("Find all: %v", err)
	}
	if len(all) != 3 || all[0].LoanID != other.LoanID || all[2].LoanID != first.LoanID {
		t.Fatalf("want newest first, got %d items", len(all))
	}

	mine, err := repo.Find(ctx, loanDomain.Filter{UserID: a.ID})
	if err != nil || len(mine) != 2 {
		t.Fatalf("Find by owner: %v len=%d", err, len(mine))
	}

	pending, err := repo.Find(ctx, loanDomain.Filter{UserID: a.ID, Status: loanDomain.StatusPending})
	if err != nil || len(pending) != 1 || pending[0].LoanID != first.LoanID {
		t.Fatalf("Find by owner+status: %v %+v", err, pending)
	}

	none, err := repo.Find(ctx, loanDomain.Filter{Status: loanDomain.StatusRejected})
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("want empty non-nil slice, got %v %v", none, err)
	}
}

func TestUpdateStatus_CompareAndSet(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "cas@example.com")

	l := makeLoan(owner.ID, 0.3)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	l.Status = loanDomain.StatusApproved
	if err := repo.UpdateStatus(ctx, l, loanDomain.StatusPending); err != nil {
		t.Fatalf("first UpdateStatus: %v", err)
	}

	stale := *l
	stale.Status = loanDomain.StatusRejected
	err := repo.UpdateStatus(ctx, &stale, loanDomain.StatusPending)
	var ce *loanDomain.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Current != loanDomain.StatusApproved || ce.LoanID != l.LoanID {
		t.Fatalf("unexpected conflict payload: %+v", ce)
	}

	got, _ := repo.GetByLoanID(ctx, l.LoanID)
	if got.Status != loanDomain.StatusApproved {
		t.Fatalf("status changed by rejected write: %s", got.Status)
	}
}

func TestUpdateStatus_MissingLoan(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	err := repo.UpdateStatus(context.Background(), &loanDomain.Loan{ID: 999, Status: loanDomain.StatusApproved}, loanDomain.StatusPending)
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
