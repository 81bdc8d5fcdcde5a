package gormrepo

import (
	"context"

	loanDomain "microlending/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) CountByAsset(ctx context.Context, symbol string, statuses ...loanDomain.Status) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Where("collateral_asset = ?", symbol)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	return n, q.Count(&n).Error
}

func (r *LoanRepository) ListByBorrower(ctx context.Context, borrower string, statuses ...loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx).Where("borrower = ?", borrower)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	return out, q.Order("id ASC").Find(&out).Error
}
