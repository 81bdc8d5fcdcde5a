package loan

import (
	"slices"
	"time"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusActive     Status = "ACTIVE"
	StatusRepaid     Status = "REPAID"
	StatusLiquidated Status = "LIQUIDATED"
)

// Terminal statuses are final: no operation may mutate a loan once it reaches one.
func (s Status) Terminal() bool { return s == StatusRepaid || s == StatusLiquidated }

// Open statuses still pin their collateral asset in the registry.
var OpenStatuses = []Status{StatusPending, StatusActive}

// Table: loans. Rows are never deleted.
type Loan struct {
	ID                        uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"loan_id"`
	Borrower                  string    `gorm:"column:borrower;size:128;not null;index:idx_loans_borrower_status" json:"borrower"`
	Amount                    uint64    `gorm:"column:amount;not null" json:"amount"`
	CollateralAmount          uint64    `gorm:"column:collateral_amount;not null" json:"collateral_amount"`
	CollateralAsset           string    `gorm:"column:collateral_asset;size:32;not null;index:idx_loans_asset_status" json:"collateral_asset"`
	InterestRate              uint64    `gorm:"column:interest_rate;not null" json:"interest_rate"` // basis points
	StartHeight               *uint64   `gorm:"column:start_height" json:"start_height,omitempty"`  // nil while PENDING
	Duration                  uint64    `gorm:"column:duration;not null" json:"duration"`           // blocks
	Status                    Status    `gorm:"column:status;size:16;not null;index:idx_loans_borrower_status;index:idx_loans_asset_status" json:"status"`
	Lenders                   []string  `gorm:"column:lenders;type:text;serializer:json" json:"lenders"`
	RepaidAmount              uint64    `gorm:"column:repaid_amount;not null;default:0" json:"repaid_amount"`
	LiquidationPriceThreshold uint64    `gorm:"column:liquidation_price_threshold;not null" json:"liquidation_price_threshold"`
	CreatedHeight             uint64    `gorm:"column:created_height;not null" json:"created_height"`
	ClosedHeight              *uint64   `gorm:"column:closed_height" json:"closed_height,omitempty"`
	LiquidatedBy              string    `gorm:"column:liquidated_by;size:128" json:"liquidated_by,omitempty"`
	CreatedAt                 time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// AddLender records a funding principal; the set never holds duplicates.
func (l *Loan) AddLender(p string) {
	if !slices.Contains(l.Lenders, p) {
		l.Lenders = append(l.Lenders, p)
	}
}

// MaturityHeight is startHeight + duration; ok is false while the loan has not started.
func (l *Loan) MaturityHeight() (h uint64, ok bool) {
	if l.StartHeight == nil {
		return 0, false
	}
	return *l.StartHeight + l.Duration, true
}

// Clone returns a deep copy so callers can keep a pre-mutation snapshot.
func (l *Loan) Clone() *Loan {
	if l == nil {
		return nil
	}
	c := *l
	c.Lenders = slices.Clone(l.Lenders)
	if l.StartHeight != nil {
		v := *l.StartHeight
		c.StartHeight = &v
	}
	if l.ClosedHeight != nil {
		v := *l.ClosedHeight
		c.ClosedHeight = &v
	}
	return &c
}
