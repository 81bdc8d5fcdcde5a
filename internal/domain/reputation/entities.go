package reputation

import "time"

// Table: reputations. Created lazily on a borrower's first loan request.
type Reputation struct {
	Borrower             string    `gorm:"column:borrower;primaryKey;size:128" json:"borrower"`
	SuccessfulRepayments uint32    `gorm:"column:successful_repayments;not null;default:0" json:"successful_repayments"`
	Defaults             uint32    `gorm:"column:defaults;not null;default:0" json:"defaults"`
	TotalBorrowed        uint64    `gorm:"column:total_borrowed;not null;default:0" json:"total_borrowed"`
	Score                uint8     `gorm:"column:score;not null" json:"reputation_score"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Reputation) TableName() string { return "reputations" }

// New returns the record of a borrower with no history.
func New(borrower string) *Reputation {
	return &Reputation{Borrower: borrower, Score: NeutralScore}
}

// RecordRepayment applies a full repayment of a loan with the given principal.
func (r *Reputation) RecordRepayment(principal uint64) {
	r.SuccessfulRepayments++
	r.TotalBorrowed += principal
	r.Score = Score(r.SuccessfulRepayments, r.Defaults)
}

// RecordDefault applies a liquidation.
func (r *Reputation) RecordDefault() {
	r.Defaults++
	r.Score = Score(r.SuccessfulRepayments, r.Defaults)
}
