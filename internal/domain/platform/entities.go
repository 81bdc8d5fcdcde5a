package platform

import (
	"regexp"
	"time"
)

// MaxPrincipalLen bounds caller identities; principals are opaque account names.
const MaxPrincipalLen = 128

var rePrincipal = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func ValidPrincipal(p string) bool {
	return len(p) <= MaxPrincipalLen && rePrincipal.MatchString(p)
}

// SingletonID is the primary key of the only platform_state row.
const SingletonID uint8 = 1

// Table: platform_state. Owner is written once at bootstrap and never changed.
type State struct {
	ID            uint8     `gorm:"column:id;primaryKey;autoIncrement:false" json:"-"`
	Owner         string    `gorm:"column:owner;size:128;not null" json:"owner"`
	EmergencyStop bool      `gorm:"column:emergency_stop;not null;default:false" json:"emergency_stop"`
	LoanNonce     uint64    `gorm:"column:loan_nonce;not null;default:0" json:"loan_nonce"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (State) TableName() string { return "platform_state" }

func (s *State) IsOwner(principal string) bool { return principal != "" && principal == s.Owner }

// NextLoanID advances the global counter; ids are never reused.
func (s *State) NextLoanID() uint64 {
	s.LoanNonce++
	return s.LoanNonce
}

// Call carries the per-operation context the surrounding platform supplies: who is calling
// and at which block height. It is passed explicitly to every operation.
type Call struct {
	Caller string
	Height uint64
}
