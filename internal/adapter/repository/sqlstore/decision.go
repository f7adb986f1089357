package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	decisionDomain "loanrisk-backend/internal/domain/decision"
)

var _ decisionDomain.Repository = (*DecisionRepository)(nil)

type DecisionRepository struct{ db *gorm.DB }

func NewDecisionRepository(db *gorm.DB) *DecisionRepository { return &DecisionRepository{db: db} }

func (r *DecisionRepository) Create(ctx context.Context, d *decisionDomain.Decision) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return decisionDomain.ErrExists
	}
	return err
}

func (r *DecisionRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*decisionDomain.Decision, error) {
	var out decisionDomain.Decision
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanNumericID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, decisionDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
