package asset

import "context"

type Repository interface {
	// Get returns gorm.ErrRecordNotFound when the symbol was never registered.
	Get(ctx context.Context, symbol string) (*Asset, error)
	Save(ctx context.Context, a *Asset) error
	List(ctx context.Context) ([]Asset, error)
}
