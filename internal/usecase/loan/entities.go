package loan

// CreateInput are the terms of a loan request. Amount is in the oracle's USD unit and
// CollateralAmount in units of CollateralAsset.
type CreateInput struct {
	Amount           uint64 `json:"amount" validate:"required,gt=0"`
	CollateralAmount uint64 `json:"collateral_amount" validate:"required,gt=0"`
	CollateralAsset  string `json:"collateral_asset" validate:"required,symbol"`
	Duration         uint64 `json:"duration" validate:"required,gt=0"`
	InterestRate     uint64 `json:"interest_rate" validate:"lte=10000"`
}

// BorrowerLoans summarizes a borrower's open positions.
type BorrowerLoans struct {
	Borrower            string   `json:"borrower"`
	ActiveLoans         []uint64 `json:"active_loans"`
	TotalActiveBorrowed uint64   `json:"total_active_borrowed"`
}
