package price

import "context"

type Repository interface {
	// Get returns gorm.ErrRecordNotFound when no price was ever published for the symbol.
	Get(ctx context.Context, symbol string) (*Price, error)
	Save(ctx context.Context, p *Price) error
}
