package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	decisionDomain "loanrisk-backend/internal/domain/decision"
	loanDomain "loanrisk-backend/internal/domain/loan"
	userDomain "loanrisk-backend/internal/domain/user"
)

var _ userDomain.Repository = (*UserRepository)(nil)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	u.Email = normalizeEmail(u.Email)
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return userDomain.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&out).Error; err != nil {
		return nil, mapUserErr(err)
	}
	return &out, nil
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, mapUserErr(err)
	}
	return &out, nil
}

// Delete cascades explicitly so the result does not depend on the dialect
// enforcing foreign keys.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u userDomain.User
		if err := tx.Where("user_id = ?", userID).First(&u).Error; err != nil {
			return mapUserErr(err)
		}
		owned := tx.Model(&loanDomain.Loan{}).Select("id").Where("user_id = ?", u.ID)
		if err := tx.Where("loan_id IN (?)", owned).Delete(&decisionDomain.Decision{}).Error; err != nil {
			return fmt.Errorf("delete decisions: %w", err)
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&loanDomain.Loan{}).Error; err != nil {
			return fmt.Errorf("delete loans: %w", err)
		}
		return tx.Delete(&u).Error
	})
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func mapUserErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return userDomain.ErrNotFound
	}
	return fmt.Errorf("user query: %w", err)
}
