package asset

import (
	"strings"
	"time"
)

const MaxSymbolLen = 32

// Table: collateral_assets
type Asset struct {
	Symbol    string    `gorm:"column:symbol;primaryKey;size:32" json:"symbol"`
	Active    bool      `gorm:"column:active;not null;default:false" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Asset) TableName() string { return "collateral_assets" }

// NormalizeSymbol trims and upper-cases a symbol so " stx" and "STX" name the same asset.
func NormalizeSymbol(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// ValidSymbol reports whether an already-normalized symbol is acceptable.
func ValidSymbol(s string) bool {
	if s == "" || len(s) > MaxSymbolLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
