package reputation

import "context"

type Repository interface {
	// Get returns gorm.ErrRecordNotFound for borrowers that never requested a loan.
	Get(ctx context.Context, borrower string) (*Reputation, error)
	Save(ctx context.Context, r *Reputation) error
}
