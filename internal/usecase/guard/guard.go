package guard

import (
	"errors"
	"fmt"

	"microlending/internal/domain/apperr"
	"microlending/internal/domain/platform"

	"gorm.io/gorm"
)

// Owner rejects callers other than the platform owner.
func Owner(st *platform.State, call platform.Call) error {
	if !st.IsOwner(call.Caller) {
		return apperr.Newf(apperr.KindNotAuthorized, "%q is not the protocol owner", call.Caller)
	}
	return nil
}

// Running rejects origination and funding while the emergency stop is set.
func Running(st *platform.State) error {
	if st.EmergencyStop {
		return apperr.ErrEmergencyStopActive
	}
	return nil
}

// Caller rejects anonymous calls.
func Caller(call platform.Call) error {
	if call.Caller == "" {
		return apperr.New(apperr.KindNotAuthorized, "caller principal is required")
	}
	return nil
}

// NotFound maps gorm.ErrRecordNotFound to the given protocol error and wraps anything else as an
// infrastructure failure.
func NotFound(err error, as *apperr.Error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return as
	}
	return fmt.Errorf("%s: %w", as.Kind, err)
}
