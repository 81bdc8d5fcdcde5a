package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	// GetByID returns gorm.ErrRecordNotFound for unknown ids.
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	// GetByIDForUpdate locks the row for the rest of the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	// CountByAsset counts loans on the asset whose status is one of statuses.
	CountByAsset(ctx context.Context, symbol string, statuses ...Status) (int64, error)
	// ListByBorrower returns the borrower's loans in id order, optionally filtered by status.
	ListByBorrower(ctx context.Context, borrower string, statuses ...Status) ([]Loan, error)
}
