package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected protocol operation. Every rejection carries exactly one kind.
type Kind uint16

const (
	KindUnknown Kind = iota
	KindNotAuthorized
	KindAssetNotFound
	KindInsufficientCollateral
	KindLoanNotFound
	KindInvalidState
	KindNotLiquidatable
	KindEmergencyStopActive
	KindOverpayment
	KindInvalidArgument
	KindAssetInUse
	KindPriceStale
)

var kindNames = map[Kind]string{
	KindNotAuthorized:          "NotAuthorized",
	KindAssetNotFound:          "AssetNotFound",
	KindInsufficientCollateral: "InsufficientCollateral",
	KindLoanNotFound:           "LoanNotFound",
	KindInvalidState:           "InvalidState",
	KindNotLiquidatable:        "NotLiquidatable",
	KindEmergencyStopActive:    "EmergencyStopActive",
	KindOverpayment:            "Overpayment",
	KindInvalidArgument:        "InvalidArgument",
	KindAssetInUse:             "AssetInUse",
	KindPriceStale:             "PriceStale",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Code is the stable numeric error code (contract style: NotAuthorized = 1000).
func (k Kind) Code() uint32 {
	if k == KindUnknown {
		return 0
	}
	return 999 + uint32(k)
}

// Error is a typed protocol rejection.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Is matches any *Error of the same kind, so callers can compare against the sentinels below
// while the message carries call-specific detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrNotAuthorized          = New(KindNotAuthorized, "caller is not authorized")
	ErrAssetNotFound          = New(KindAssetNotFound, "collateral asset not found")
	ErrInsufficientCollateral = New(KindInsufficientCollateral, "insufficient collateral")
	ErrLoanNotFound           = New(KindLoanNotFound, "loan not found")
	ErrInvalidState           = New(KindInvalidState, "loan not in a state that permits this operation")
	ErrNotLiquidatable        = New(KindNotLiquidatable, "loan is not liquidatable")
	ErrEmergencyStopActive    = New(KindEmergencyStopActive, "emergency stop is active")
	ErrOverpayment            = New(KindOverpayment, "repayment exceeds amount owed")
	ErrInvalidArgument        = New(KindInvalidArgument, "invalid argument")
	ErrAssetInUse             = New(KindAssetInUse, "collateral asset referenced by an open loan")
	ErrPriceStale             = New(KindPriceStale, "oracle price is stale")
)

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
