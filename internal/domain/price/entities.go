package price

import "time"

// Scale is the fixed-point denominator of Price: 1_000_000 means 1.00 USD.
const Scale uint64 = 1_000_000

// Table: asset_prices. One row per asset, overwritten by every oracle update.
type Price struct {
	Symbol            string    `gorm:"column:symbol;primaryKey;size:32" json:"symbol"`
	Price             uint64    `gorm:"column:price;not null" json:"price"`
	LastUpdatedHeight uint64    `gorm:"column:last_updated_height;not null" json:"last_updated_height"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Price) TableName() string { return "asset_prices" }

// Age is the number of blocks since the price was stamped, zero if height is behind the stamp.
func (p *Price) Age(height uint64) uint64 {
	if height <= p.LastUpdatedHeight {
		return 0
	}
	return height - p.LastUpdatedHeight
}
