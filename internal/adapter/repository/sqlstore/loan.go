package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "loanrisk-backend/internal/domain/loan"
	userDomain "loanrisk-backend/internal/domain/user"
)

var _ loanDomain.Repository = (*LoanRepository)(nil)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).Preload("User").Where("loan_id = ?", loanID).First(&out).Error
	if err != nil {
		return nil, mapLoanErr(err)
	}
	return &out, nil
}

// GetByLoanIDForUpdate takes a row lock on dialects that have one. SQLite
// already serializes writers on its single connection.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	if err := q.Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, mapLoanErr(err)
	}
	var owner userDomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", out.UserID).First(&owner).Error; err == nil {
		out.User = &owner
	}
	return &out, nil
}

func (r *LoanRepository) Find(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Preload("User").Order("id DESC")
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	out := []loanDomain.Loan{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus is a compare-and-set on the status column: the second of two
// racing writers matches zero rows and gets a conflict.
func (r *LoanRepository) UpdateStatus(ctx context.Context, l *loanDomain.Loan, from loanDomain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("id = ? AND status = ?", l.ID, from).
		Updates(map[string]any{
			"status":            l.Status,
			"status_updated_at": l.StatusUpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var cur loanDomain.Loan
	if err := r.db.WithContext(ctx).Select("id", "loan_id", "status").Where("id = ?", l.ID).First(&cur).Error; err != nil {
		return mapLoanErr(err)
	}
	return &loanDomain.ConflictError{LoanID: cur.LoanID, Current: cur.Status}
}

func mapLoanErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loanDomain.ErrNotFound
	}
	return fmt.Errorf("loan query: %w", err)
}
